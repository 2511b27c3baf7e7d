package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-planner-api/internal/dto"
	"github.com/noah-isme/uni-planner-api/internal/models"
	"github.com/noah-isme/uni-planner-api/internal/planner"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
	"github.com/noah-isme/uni-planner-api/pkg/sharelink"
)

type plannerCourseLoader interface {
	LoadForPlanning(ctx context.Context, termID string, codes []string) ([]models.Course, error)
}

type generationObserver interface {
	ObserveGeneration(duration time.Duration, results, conflicts int)
}

// PlannerConfig tunes the plan generation surface.
type PlannerConfig struct {
	MaxResults int
	PlanTTL    time.Duration
}

// PlannerService orchestrates plan generation: it loads the requested
// courses, runs the combination search, keeps finished plans around for a
// short window, and signs share links for individual results.
type PlannerService struct {
	courses   plannerCourseLoader
	metrics   generationObserver
	signer    *sharelink.Signer
	validator *validator.Validate
	logger    *zap.Logger
	config    PlannerConfig
	store     *planStore
}

// NewPlannerService constructs a PlannerService instance.
func NewPlannerService(courses plannerCourseLoader, metrics generationObserver, signer *sharelink.Signer, validate *validator.Validate, logger *zap.Logger, config PlannerConfig) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.MaxResults <= 0 {
		config.MaxResults = planner.DefaultMaxResults
	}
	if config.PlanTTL <= 0 {
		config.PlanTTL = 30 * time.Minute
	}
	return &PlannerService{
		courses:   courses,
		metrics:   metrics,
		signer:    signer,
		validator: validate,
		logger:    logger,
		config:    config,
		store:     newPlanStore(config.PlanTTL),
	}
}

// GeneratePlan enumerates conflict-free section combinations for the request.
func (s *PlannerService) GeneratePlan(ctx context.Context, req dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	courses, err := s.courses.LoadForPlanning(ctx, req.TermID, req.CourseCodes)
	if err != nil {
		return nil, err
	}

	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > s.config.MaxResults {
		maxResults = s.config.MaxResults
	}

	filter := make(map[string][]string, len(req.SectionFilters))
	for _, f := range req.SectionFilters {
		filter[f.CourseCode] = f.SectionIDs
	}

	overrides := planner.OverridePolicy{}
	for _, rule := range req.Overrides {
		overrides.Allow(rule.CourseCode, models.ParseActivityType(rule.ActivityType))
	}

	started := time.Now()
	outcome, err := planner.Generate(ctx, planner.Request{
		Courses:       courses,
		MaxResults:    maxResults,
		SectionFilter: filter,
		Overrides:     overrides,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "generation failed")
	}
	elapsed := time.Since(started)
	if s.metrics != nil {
		s.metrics.ObserveGeneration(elapsed, len(outcome.Results), outcome.TotalConflicts)
	}

	response := s.buildResponse(req.TermID, maxResults, outcome)
	s.store.Save(storedPlan{
		ID:          response.PlanID,
		TermID:      req.TermID,
		Response:    response,
		Results:     outcome.Results,
		RequestedAt: response.GeneratedAt,
	})

	s.logger.Info("plan generated",
		zap.String("plan_id", response.PlanID),
		zap.String("term_id", req.TermID),
		zap.Int("courses", len(req.CourseCodes)),
		zap.Int("results", len(response.Results)),
		zap.Int("conflicts", response.TotalConflicts),
		zap.Duration("elapsed", elapsed))

	return response, nil
}

// GetPlan returns a previously generated plan while it is still retained.
func (s *PlannerService) GetPlan(ctx context.Context, planID string) (*dto.GeneratePlanResponse, error) {
	plan, ok := s.store.Get(planID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPlanNotFound, "")
	}
	return plan.Response, nil
}

// SharePlan signs a share-link token for one result of a retained plan.
func (s *PlannerService) SharePlan(ctx context.Context, planID string, resultID int) (*dto.SharePlanResponse, error) {
	plan, ok := s.store.Get(planID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPlanNotFound, "")
	}

	var sectionIDs []string
	for _, result := range plan.Results {
		if result.ID != resultID {
			continue
		}
		for _, section := range result.Sections {
			sectionIDs = append(sectionIDs, section.ID)
		}
		break
	}
	if len(sectionIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "result "+strconv.Itoa(resultID)+" not found in plan")
	}

	token, expiresAt, err := s.signer.Generate(plan.TermID, sectionIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign share link")
	}
	return &dto.SharePlanResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// PlanResultSections returns the sections of one result of a retained plan.
func (s *PlannerService) PlanResultSections(ctx context.Context, planID string, resultID int) (string, []models.Section, error) {
	plan, ok := s.store.Get(planID)
	if !ok {
		return "", nil, appErrors.Clone(appErrors.ErrPlanNotFound, "")
	}
	for _, result := range plan.Results {
		if result.ID == resultID {
			return plan.TermID, result.Sections, nil
		}
	}
	return "", nil, appErrors.Clone(appErrors.ErrNotFound, "result "+strconv.Itoa(resultID)+" not found in plan")
}

// ResolveSharedPlan verifies a share token and returns its contents.
func (s *PlannerService) ResolveSharedPlan(token string) (*dto.SharedPlanView, error) {
	termID, sectionIDs, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired share link")
	}
	return &dto.SharedPlanView{TermID: termID, SectionIDs: sectionIDs}, nil
}

func (s *PlannerService) buildResponse(termID string, maxResults int, outcome *planner.Outcome) *dto.GeneratePlanResponse {
	results := make([]dto.PlanResultView, 0, len(outcome.Results))
	for _, result := range outcome.Results {
		summary := planner.Summarize(result)

		sections := make([]dto.SectionView, 0, len(result.Sections))
		for _, section := range result.Sections {
			sections = append(sections, dto.SectionView{
				ID:         section.ID,
				CourseCode: section.CourseCode,
				Number:     section.Number,
				Instructor: section.Instructor,
				Room:       section.Room,
				Activities: section.Activities,
			})
		}

		results = append(results, dto.PlanResultView{
			ID:                  result.ID,
			Sections:            sections,
			OccupiedBlocks:      summary.OccupiedBlocks,
			Blocks:              result.TotalMask.Blocks(),
			Description:         summary.Description,
			HasPermittedOverlap: result.HasPermittedOverlap,
		})
	}

	diagnostics := make([]dto.PairDiagnosticView, 0, len(outcome.Diagnostics))
	for _, diag := range outcome.Diagnostics {
		diagnostics = append(diagnostics, dto.PairDiagnosticView{
			CourseA:    diag.CourseA,
			CourseB:    diag.CourseB,
			Percentage: diag.Percentage,
			PeakDay:    diag.PeakDay.String(),
			PeakPeriod: diag.PeakPeriod,
			Example: dto.ConflictExampleView{
				CandidateSectionID: diag.Example.CandidateSectionID,
				ExistingSectionID:  diag.Example.ExistingSectionID,
				Day:                diag.Example.Block.Day.String(),
				Period:             diag.Example.Block.Period,
			},
		})
	}
	if len(diagnostics) == 0 {
		diagnostics = nil
	}

	return &dto.GeneratePlanResponse{
		PlanID:         uuid.NewString(),
		TermID:         termID,
		Results:        results,
		Diagnostics:    diagnostics,
		TotalConflicts: outcome.TotalConflicts,
		DroppedCourses: outcome.DroppedCourses,
		CapReached:     len(outcome.Results) == maxResults,
		GeneratedAt:    time.Now().UTC(),
	}
}

type storedPlan struct {
	ID          string
	TermID      string
	Response    *dto.GeneratePlanResponse
	Results     []planner.Result
	RequestedAt time.Time
}

type planStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]storedPlan
}

func newPlanStore(ttl time.Duration) *planStore {
	return &planStore{
		ttl:   ttl,
		items: make(map[string]storedPlan),
	}
}

func (s *planStore) Save(plan storedPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[plan.ID] = plan
}

func (s *planStore) Get(id string) (storedPlan, bool) {
	s.mu.RLock()
	plan, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return storedPlan{}, false
	}
	if time.Since(plan.RequestedAt) > s.ttl {
		s.Delete(id)
		return storedPlan{}, false
	}
	return plan, true
}

func (s *planStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
