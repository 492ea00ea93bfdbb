package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/dto"
	"github.com/SscSPs/carbon_accounting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// offsetHandler handles offset estimate, purchase and listing requests.
type offsetHandler struct {
	offsetService portssvc.OffsetSvc
}

func newOffsetHandler(svc portssvc.OffsetSvc) *offsetHandler {
	return &offsetHandler{offsetService: svc}
}

// registerOffsetRoutes registers routes related to carbon offsets.
func registerOffsetRoutes(rg *gin.RouterGroup, offsetService portssvc.OffsetSvc) {
	h := newOffsetHandler(offsetService)

	offsets := rg.Group("/offsets")
	{
		offsets.POST("/estimate", h.estimateOffset)
		offsets.POST("/purchase", h.purchaseOffset)
		offsets.GET("", h.listOffsets)
		offsets.GET("/projects", h.listProjects)
		offsets.GET("/:offsetID/settlement", h.getSettlement)
	}
}

// estimateOffset godoc
// @Summary Quote the cost of offsetting carbon
// @Tags offsets
// @Accept  json
// @Produce  json
// @Param   estimate body dto.EstimateOffsetRequest true "Carbon amount and optional project type"
// @Success 200 {object} domain.OffsetEstimate
// @Failure 400 {object} map[string]string "Invalid amount or below the purchase minimum"
// @Failure 502 {object} map[string]string "Offset exchange unavailable"
// @Security BearerAuth
// @Router /offsets/estimate [post]
func (h *offsetHandler) estimateOffset(c *gin.Context) {
	var req dto.EstimateOffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	estimate, err := h.offsetService.EstimateOffset(c.Request.Context(), req.CarbonInKg, domain.OffsetProjectType(req.ProjectType))
	if err != nil {
		respondWithError(c, err, "Failed to estimate offset")
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// purchaseOffset godoc
// @Summary Purchase an offset from an estimate
// @Description Executes the estimate and applies the offset to the current month's usage
// @Tags offsets
// @Accept  json
// @Produce  json
// @Param   purchase body dto.PurchaseOffsetRequest true "Estimate and scope"
// @Success 201 {object} domain.CarbonOffset
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Offset exchange unavailable"
// @Security BearerAuth
// @Router /offsets/purchase [post]
func (h *offsetHandler) purchaseOffset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PurchaseOffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	offset, err := h.offsetService.PurchaseOffset(c.Request.Context(), userID, req.EstimateID, req.ToDomain())
	if err != nil {
		respondWithError(c, err, "Failed to purchase offset")
		return
	}

	logger.Info("Offset purchased", slog.String("offset_id", offset.OffsetID), slog.String("purchase_id", offset.PurchaseID))
	c.JSON(http.StatusCreated, offset)
}

// listOffsets godoc
// @Summary List purchased offsets
// @Tags offsets
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   departmentId query string false "Department ID"
// @Param   projectId query string false "Project ID"
// @Param   limit query int false "Maximum results" default(10)
// @Success 200 {object} dto.OffsetListResponse
// @Security BearerAuth
// @Router /offsets [get]
func (h *offsetHandler) listOffsets(c *gin.Context) {
	var scope dto.ScopeRequest
	if err := c.ShouldBindQuery(&scope); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	limit, err := queryLimit(c)
	if err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	offsets, err := h.offsetService.GetOffsetHistory(c.Request.Context(), scope.ToDomain(), limit)
	if err != nil {
		respondWithError(c, err, "Failed to list offsets")
		return
	}
	if offsets == nil {
		offsets = []domain.CarbonOffset{}
	}
	c.JSON(http.StatusOK, dto.OffsetListResponse{Offsets: offsets})
}

// getSettlement godoc
// @Summary Show how a purchased offset was settled
// @Description Returns the offset, its usage application marker and the exchange's current purchase status
// @Tags offsets
// @Produce  json
// @Param   offsetID path string true "Offset ID"
// @Success 200 {object} domain.OffsetSettlement
// @Failure 404 {object} map[string]string "Offset not found"
// @Failure 502 {object} map[string]string "Offset exchange unavailable"
// @Security BearerAuth
// @Router /offsets/{offsetID}/settlement [get]
func (h *offsetHandler) getSettlement(c *gin.Context) {
	settlement, err := h.offsetService.GetOffsetSettlement(c.Request.Context(), c.Param("offsetID"))
	if err != nil {
		respondWithError(c, err, "Failed to get offset settlement")
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// listProjects godoc
// @Summary List available offset projects
// @Tags offsets
// @Produce  json
// @Param   type query string false "Project type"
// @Success 200 {array} domain.OffsetProject
// @Failure 400 {object} map[string]string "Unknown project type"
// @Failure 502 {object} map[string]string "Offset exchange unavailable"
// @Security BearerAuth
// @Router /offsets/projects [get]
func (h *offsetHandler) listProjects(c *gin.Context) {
	projectType := domain.OffsetProjectType(c.Query("type"))
	if projectType != "" && !projectType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown project type: " + string(projectType)})
		return
	}

	projects, err := h.offsetService.GetAvailableProjects(c.Request.Context(), projectType)
	if err != nil {
		respondWithError(c, err, "Failed to list offset projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}
