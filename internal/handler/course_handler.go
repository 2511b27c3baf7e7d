package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-planner-api/internal/dto"
	"github.com/noah-isme/uni-planner-api/internal/models"
	"github.com/noah-isme/uni-planner-api/internal/service"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
	"github.com/noah-isme/uni-planner-api/pkg/response"
)

type courseCatalog interface {
	ListCourses(ctx context.Context, query dto.CourseQuery) ([]models.Course, error)
	GetCourse(ctx context.Context, termID, code string) (*models.Course, error)
	Sync(ctx context.Context, req dto.CatalogSyncRequest) (*dto.CatalogSyncReport, error)
}

// CourseHandler exposes catalog endpoints.
type CourseHandler struct {
	catalog courseCatalog
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(catalog *service.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// List godoc
// @Summary List courses for a term
// @Tags Catalog
// @Produce json
// @Param termId query string true "Term ID"
// @Param search query string false "Code or title substring"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var query dto.CourseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course query"))
		return
	}
	courses, err := h.catalog.ListCourses(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get one course with its sections
// @Tags Catalog
// @Produce json
// @Param code path string true "Course code"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{code} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "termId is required"))
		return
	}
	course, err := h.catalog.GetCourse(c.Request.Context(), termID, c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Sync godoc
// @Summary Refresh courses from the upstream catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CatalogSyncRequest true "Sync payload"
// @Success 200 {object} response.Envelope
// @Router /courses/sync [post]
func (h *CourseHandler) Sync(c *gin.Context) {
	var req dto.CatalogSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
		return
	}
	report, err := h.catalog.Sync(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if report.Queued {
		status = http.StatusAccepted
	}
	response.JSON(c, status, report, nil)
}
