package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-planner-api/internal/dto"
	"github.com/noah-isme/uni-planner-api/internal/service"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
	"github.com/noah-isme/uni-planner-api/pkg/response"
)

type planGenerator interface {
	GeneratePlan(ctx context.Context, req dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error)
	GetPlan(ctx context.Context, planID string) (*dto.GeneratePlanResponse, error)
	SharePlan(ctx context.Context, planID string, resultID int) (*dto.SharePlanResponse, error)
	ResolveSharedPlan(token string) (*dto.SharedPlanView, error)
}

type planExporter interface {
	ExportPlanResult(ctx context.Context, planID string, resultID int, format string) (*service.ExportFile, error)
}

// PlannerHandler exposes plan generation endpoints.
type PlannerHandler struct {
	planner  planGenerator
	exporter planExporter
}

// NewPlannerHandler constructs the handler.
func NewPlannerHandler(planner *service.PlannerService, exporter *service.ExportService) *PlannerHandler {
	return &PlannerHandler{planner: planner, exporter: exporter}
}

// Generate godoc
// @Summary Generate conflict-free section combinations
// @Description Enumerates every clash-free assignment of one section per requested course. When nothing fits, the response carries ranked conflict diagnostics instead.
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePlanRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Router /plans/generate [post]
func (h *PlannerHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.planner.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Get godoc
// @Summary Fetch a previously generated plan
// @Tags Planner
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [get]
func (h *PlannerHandler) Get(c *gin.Context) {
	result, err := h.planner.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Share godoc
// @Summary Create a signed share link for one plan result
// @Tags Planner
// @Produce json
// @Param id path string true "Plan ID"
// @Param resultId path int true "Result ID"
// @Success 201 {object} response.Envelope
// @Router /plans/{id}/results/{resultId}/share [post]
func (h *PlannerHandler) Share(c *gin.Context) {
	resultID, err := strconv.Atoi(c.Param("resultId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "resultId must be an integer"))
		return
	}
	share, err := h.planner.SharePlan(c.Request.Context(), c.Param("id"), resultID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, share)
}

// Shared godoc
// @Summary Resolve a share token into its sections
// @Tags Planner
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} response.Envelope
// @Router /plans/shared/{token} [get]
func (h *PlannerHandler) Shared(c *gin.Context) {
	view, err := h.planner.ResolveSharedPlan(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	// Share links are public; a logged-in viewer gets their identity
	// echoed back so clients can offer "save to my selections".
	if claims := claimsFromContext(c); claims != nil {
		response.JSON(c, http.StatusOK, view, nil, map[string]interface{}{"viewerId": claims.UserID})
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Export godoc
// @Summary Download one plan result as a weekly timetable
// @Tags Planner
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Plan ID"
// @Param resultId path int true "Result ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /plans/{id}/results/{resultId}/export [get]
func (h *PlannerHandler) Export(c *gin.Context) {
	resultID, err := strconv.Atoi(c.Param("resultId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "resultId must be an integer"))
		return
	}
	file, err := h.exporter.ExportPlanResult(c.Request.Context(), c.Param("id"), resultID, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
