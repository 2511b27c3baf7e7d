package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-planner-api/internal/dto"
	"github.com/noah-isme/uni-planner-api/internal/models"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
)

// DefaultSelectionLabel names selections saved without an explicit label.
const DefaultSelectionLabel = "default"

type selectionRepository interface {
	Save(ctx context.Context, selection *models.Selection) error
	ListByUser(ctx context.Context, userID, termID string) ([]models.Selection, error)
	FindByID(ctx context.Context, userID, id string) (*models.Selection, error)
	Delete(ctx context.Context, userID, id string) error
}

// SelectionService persists and restores users' saved section picks.
type SelectionService struct {
	repo      selectionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSelectionService constructs a SelectionService instance.
func NewSelectionService(repo selectionRepository, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SelectionService{repo: repo, validator: validate, logger: logger}
}

// Save stores the user's selection, replacing any earlier one with the same
// label in the same term.
func (s *SelectionService) Save(ctx context.Context, userID string, req dto.SaveSelectionRequest) (*models.Selection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = DefaultSelectionLabel
	}

	selection := &models.Selection{
		UserID:     userID,
		TermID:     req.TermID,
		Label:      label,
		SectionIDs: req.SectionIDs,
	}
	if err := s.repo.Save(ctx, selection); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save selection")
	}
	return selection, nil
}

// List returns the user's selections for a term.
func (s *SelectionService) List(ctx context.Context, userID string, query dto.SelectionQuery) ([]models.Selection, error) {
	if query.TermID == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "termId is required")
	}
	selections, err := s.repo.ListByUser(ctx, userID, query.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list selections")
	}
	return selections, nil
}

// Get loads one selection owned by the user.
func (s *SelectionService) Get(ctx context.Context, userID, id string) (*models.Selection, error) {
	selection, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "selection not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load selection")
	}
	return selection, nil
}

// Delete removes one selection owned by the user.
func (s *SelectionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "selection not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete selection")
	}
	return nil
}
