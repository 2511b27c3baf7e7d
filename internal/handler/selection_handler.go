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

type selectionManager interface {
	Save(ctx context.Context, userID string, req dto.SaveSelectionRequest) (*models.Selection, error)
	List(ctx context.Context, userID string, query dto.SelectionQuery) ([]models.Selection, error)
	Get(ctx context.Context, userID, id string) (*models.Selection, error)
	Delete(ctx context.Context, userID, id string) error
}

// SelectionHandler exposes saved-selection endpoints. Every route requires an
// authenticated user; selections are always scoped to the caller.
type SelectionHandler struct {
	selections selectionManager
}

// NewSelectionHandler constructs the handler.
func NewSelectionHandler(selections *service.SelectionService) *SelectionHandler {
	return &SelectionHandler{selections: selections}
}

// Save godoc
// @Summary Save the caller's section picks for a term
// @Tags Selections
// @Accept json
// @Produce json
// @Param payload body dto.SaveSelectionRequest true "Selection payload"
// @Success 201 {object} response.Envelope
// @Router /selections [post]
func (h *SelectionHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SaveSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	selection, err := h.selections.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, selection)
}

// List godoc
// @Summary List the caller's selections for a term
// @Tags Selections
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /selections [get]
func (h *SelectionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.SelectionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection query"))
		return
	}
	selections, err := h.selections.List(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, selections, nil)
}

// Get godoc
// @Summary Get one of the caller's selections
// @Tags Selections
// @Produce json
// @Param id path string true "Selection ID"
// @Success 200 {object} response.Envelope
// @Router /selections/{id} [get]
func (h *SelectionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	selection, err := h.selections.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, selection, nil)
}

// Delete godoc
// @Summary Delete one of the caller's selections
// @Tags Selections
// @Param id path string true "Selection ID"
// @Success 204
// @Router /selections/{id} [delete]
func (h *SelectionHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.selections.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
