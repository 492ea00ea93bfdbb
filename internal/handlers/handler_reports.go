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

// reportHandler handles sustainability reports and the compliance registry.
type reportHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportHandler(rs portssvc.ReportingSvcFacade) *reportHandler {
	return &reportHandler{reportingService: rs}
}

// registerReportRoutes registers report and compliance routes.
func registerReportRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.POST("", h.generateReport)
		reports.GET("", h.listReports)
		reports.GET("/:reportID", h.getReport)
	}

	compliance := rg.Group("/compliance")
	{
		compliance.PUT("/:standard", h.setCompliance)
		compliance.GET("", h.listCompliance)
	}
}

// generateReport godoc
// @Summary Generate a sustainability report
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   report body dto.GenerateReportRequest true "Scope, report type and period"
// @Success 201 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No usage recorded for the period"
// @Security BearerAuth
// @Router /reports [post]
func (h *reportHandler) generateReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	report, err := h.reportingService.GenerateReport(c.Request.Context(), req.ToDomain(),
		domain.ReportType(req.ReportType), req.StartDate.UTC(), req.EndDate.UTC(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to generate report")
		return
	}

	logger.Info("Report generated", slog.String("report_id", report.ReportID))
	c.JSON(http.StatusCreated, dto.ToReportResponse(report))
}

// listReports godoc
// @Summary List sustainability reports
// @Tags reports
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   departmentId query string false "Department ID"
// @Param   projectId query string false "Project ID"
// @Param   reportType query string false "Report type"
// @Param   limit query int false "Maximum results" default(20)
// @Success 200 {array} dto.ReportResponse
// @Security BearerAuth
// @Router /reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	var q dto.ListReportsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	reports, err := h.reportingService.GetReports(c.Request.Context(), q.OrganizationID, q.ToFilter(), q.Limit)
	if err != nil {
		respondWithError(c, err, "Failed to list reports")
		return
	}
	c.JSON(http.StatusOK, dto.ToListReportResponse(reports))
}

// getReport godoc
// @Summary Get a sustainability report
// @Tags reports
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 404 {object} map[string]string "Report not found"
// @Security BearerAuth
// @Router /reports/{reportID} [get]
func (h *reportHandler) getReport(c *gin.Context) {
	report, err := h.reportingService.GetReport(c.Request.Context(), c.Param("reportID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve report")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// setCompliance godoc
// @Summary Record compliance with a standard
// @Description Creates or replaces the organization's compliance record for the standard
// @Tags compliance
// @Accept  json
// @Produce  json
// @Param   standard path string true "Accounting standard"
// @Param   compliance body dto.SetComplianceRequest true "Compliance details"
// @Success 200 {object} domain.StandardCompliance
// @Failure 400 {object} map[string]string "Invalid input or unknown standard"
// @Security BearerAuth
// @Router /compliance/{standard} [put]
func (h *reportHandler) setCompliance(c *gin.Context) {
	var req dto.SetComplianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	record, err := h.reportingService.SetStandardCompliance(c.Request.Context(), req.OrganizationID,
		domain.AccountingStandard(c.Param("standard")), req.Compliant, req.ToDetails(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to update compliance")
		return
	}
	c.JSON(http.StatusOK, record)
}

// listCompliance godoc
// @Summary List compliance records
// @Tags compliance
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   standard query string false "Only this standard"
// @Success 200 {array} domain.StandardCompliance
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /compliance [get]
func (h *reportHandler) listCompliance(c *gin.Context) {
	organizationID := c.Query("organizationId")
	if organizationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organizationId is required"})
		return
	}

	records, err := h.reportingService.GetStandardsCompliance(c.Request.Context(), organizationID,
		domain.AccountingStandard(c.Query("standard")))
	if err != nil {
		respondWithError(c, err, "Failed to list compliance records")
		return
	}
	if records == nil {
		records = []domain.StandardCompliance{}
	}
	c.JSON(http.StatusOK, records)
}
