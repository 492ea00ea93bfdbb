package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/dto"
	"github.com/SscSPs/carbon_accounting_app/internal/middleware"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/carbon"
	"github.com/gin-gonic/gin"
)

// trackingHandler handles footprint, usage and emissions analytics requests.
type trackingHandler struct {
	trackingService portssvc.TrackingSvcFacade
}

func newTrackingHandler(ts portssvc.TrackingSvcFacade) *trackingHandler {
	return &trackingHandler{trackingService: ts}
}

// registerTrackingRoutes registers footprint, usage and emissions routes.
func registerTrackingRoutes(rg *gin.RouterGroup, trackingService portssvc.TrackingSvcFacade) {
	h := newTrackingHandler(trackingService)

	footprint := rg.Group("/footprint")
	{
		footprint.POST("/calculate", h.calculateFootprint)
		footprint.GET("/summary", h.getFootprintSummary)
	}

	usage := rg.Group("/usage")
	{
		usage.POST("", h.recordUsage)
		usage.GET("", h.getUsageForPeriod)
		usage.GET("/history", h.getUsageHistory)
	}

	emissions := rg.Group("/emissions")
	{
		emissions.GET("/timeseries", h.getEmissionsTimeSeries)
		emissions.GET("/breakdown", h.getEmissionsBreakdown)
		emissions.GET("/trends", h.getEmissionsTrends)
	}
}

// calculateFootprint godoc
// @Summary Calculate a carbon footprint
// @Description Calculates kg CO2e for the given activity counts without storing anything
// @Tags footprint
// @Accept  json
// @Produce  json
// @Param   metrics body dto.UsageMetricsRequest true "Usage metrics"
// @Success 200 {object} dto.CalculateFootprintResponse
// @Failure 400 {object} map[string]string "Invalid input format or negative metrics"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /footprint/calculate [post]
func (h *trackingHandler) calculateFootprint(c *gin.Context) {
	var req dto.UsageMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	metrics := req.ToDomain()
	if !carbon.ValidateMetrics(metrics) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usage metrics must be non-negative"})
		return
	}

	c.JSON(http.StatusOK, dto.CalculateFootprintResponse{
		CarbonInKg: h.trackingService.CalculateFootprint(metrics),
		BySource:   carbon.SourceBreakdown(metrics),
	})
}

// recordUsage godoc
// @Summary Record a usage snapshot
// @Description Stores activity counts for a scope and period and computes the footprint
// @Tags usage
// @Accept  json
// @Produce  json
// @Param   usage body dto.RecordUsageRequest true "Usage snapshot"
// @Success 201 {object} dto.UsageResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record usage"
// @Security BearerAuth
// @Router /usage [post]
func (h *trackingHandler) recordUsage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period := domain.Period{StartDate: req.StartDate.UTC(), EndDate: req.EndDate.UTC()}
	usage, err := h.trackingService.RecordUsage(c.Request.Context(), req.ScopeRequest.ToDomain(), req.UsageMetricsRequest.ToDomain(), period, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record usage")
		return
	}

	logger.Info("Usage recorded", slog.String("usage_id", usage.UsageID))
	c.JSON(http.StatusCreated, dto.ToUsageResponse(usage))
}

// getUsageForPeriod godoc
// @Summary Get the usage snapshot of a period
// @Description Returns the usage snapshot whose period boundaries exactly match the given dates
// @Tags usage
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   departmentId query string false "Department ID"
// @Param   projectId query string false "Project ID"
// @Param   startDate query string true "Period start (YYYY-MM-DD or RFC3339)"
// @Param   endDate query string true "Period end (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} dto.UsageResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "No usage recorded for the period"
// @Security BearerAuth
// @Router /usage [get]
func (h *trackingHandler) getUsageForPeriod(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	start, end, err := parseRange(q.StartDate, q.EndDate)
	if err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	usage, err := h.trackingService.GetUsageForPeriod(c.Request.Context(), q.ToDomain(), start, end)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve usage")
		return
	}
	if usage == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No usage recorded for this period"})
		return
	}
	c.JSON(http.StatusOK, dto.ToUsageResponse(usage))
}

// getUsageHistory godoc
// @Summary List recent usage snapshots
// @Tags usage
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   departmentId query string false "Department ID"
// @Param   projectId query string false "Project ID"
// @Param   limit query int false "Maximum results" default(10)
// @Success 200 {array} dto.UsageResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /usage/history [get]
func (h *trackingHandler) getUsageHistory(c *gin.Context) {
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

	usages, err := h.trackingService.GetUsageHistory(c.Request.Context(), scope.ToDomain(), limit)
	if err != nil {
		respondWithError(c, err, "Failed to list usage history")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUsageResponse(usages))
}

// getFootprintSummary godoc
// @Summary Get the trailing twelve month footprint summary
// @Tags footprint
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   departmentId query string false "Department ID"
// @Param   projectId query string false "Project ID"
// @Success 200 {object} domain.FootprintSummary
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /footprint/summary [get]
func (h *trackingHandler) getFootprintSummary(c *gin.Context) {
	var scope dto.ScopeRequest
	if err := c.ShouldBindQuery(&scope); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	summary, err := h.trackingService.GetFootprintSummary(c.Request.Context(), scope.ToDomain())
	if err != nil {
		respondWithError(c, err, "Failed to build footprint summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getEmissionsTimeSeries godoc
// @Summary Daily emissions series
// @Tags emissions
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   startDate query string true "Range start"
// @Param   endDate query string true "Range end"
// @Success 200 {array} domain.EmissionsPoint
// @Security BearerAuth
// @Router /emissions/timeseries [get]
func (h *trackingHandler) getEmissionsTimeSeries(c *gin.Context) {
	scope, start, end, ok := bindRange(c)
	if !ok {
		return
	}
	series, err := h.trackingService.GetEmissionsTimeSeries(c.Request.Context(), scope, start, end)
	if err != nil {
		respondWithError(c, err, "Failed to build emissions time series")
		return
	}
	c.JSON(http.StatusOK, series)
}

// getEmissionsBreakdown godoc
// @Summary Emissions by source
// @Tags emissions
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   startDate query string true "Range start"
// @Param   endDate query string true "Range end"
// @Success 200 {array} domain.EmissionsBreakdownItem
// @Security BearerAuth
// @Router /emissions/breakdown [get]
func (h *trackingHandler) getEmissionsBreakdown(c *gin.Context) {
	scope, start, end, ok := bindRange(c)
	if !ok {
		return
	}
	items, err := h.trackingService.GetEmissionsBreakdown(c.Request.Context(), scope, start, end)
	if err != nil {
		respondWithError(c, err, "Failed to build emissions breakdown")
		return
	}
	c.JSON(http.StatusOK, items)
}

// getEmissionsTrends godoc
// @Summary Period over period emissions comparison
// @Tags emissions
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   startDate query string true "Range start"
// @Param   endDate query string true "Range end"
// @Success 200 {array} domain.EmissionsTrend
// @Security BearerAuth
// @Router /emissions/trends [get]
func (h *trackingHandler) getEmissionsTrends(c *gin.Context) {
	scope, start, end, ok := bindRange(c)
	if !ok {
		return
	}
	trends, err := h.trackingService.GetEmissionsTrends(c.Request.Context(), scope, start, end)
	if err != nil {
		respondWithError(c, err, "Failed to build emissions trends")
		return
	}
	c.JSON(http.StatusOK, trends)
}

func bindRange(c *gin.Context) (domain.Scope, time.Time, time.Time, bool) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return domain.Scope{}, time.Time{}, time.Time{}, false
	}
	start, end, err := parseRange(q.StartDate, q.EndDate)
	if err != nil {
		badRequest(c, "Invalid query parameters", err)
		return domain.Scope{}, time.Time{}, time.Time{}, false
	}
	return q.ToDomain(), start, end, true
}
