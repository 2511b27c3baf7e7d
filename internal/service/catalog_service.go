package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-planner-api/internal/dto"
	"github.com/noah-isme/uni-planner-api/internal/models"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
	"github.com/noah-isme/uni-planner-api/pkg/jobs"
)

// JobTypeCatalogSync identifies queued catalog refresh jobs.
const JobTypeCatalogSync = "catalog-sync"

type catalogCourseRepository interface {
	FindByCode(ctx context.Context, termID, code string) (*models.Course, error)
	ListByCodes(ctx context.Context, termID string, codes []string) ([]models.Course, error)
	ListByTerm(ctx context.Context, termID, search string) ([]models.Course, error)
	UpsertCourse(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	UpsertSections(ctx context.Context, exec sqlx.ExtContext, sections []models.Section) error
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type cacheObserver interface {
	RecordCacheOperation(hit bool)
}

// CatalogConfig points the service at the upstream course catalog.
type CatalogConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// CatalogService mirrors the institution's course catalog into local storage
// and serves reads from it, with a Redis layer in front.
type CatalogService struct {
	repo      catalogCourseRepository
	cache     catalogCache
	metrics   cacheObserver
	client    *http.Client
	baseURL   string
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	queue     *jobs.Queue
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(repo catalogCourseRepository, cache catalogCache, metrics cacheObserver, validate *validator.Validate, logger *zap.Logger, config CatalogConfig) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CatalogService{
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		client:    &http.Client{Timeout: timeout},
		baseURL:   config.BaseURL,
		cacheTTL:  config.CacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// SetQueue attaches the background sync queue. The queue's handler should be
// HandleSyncJob; wiring happens in main to avoid a construction cycle.
func (s *CatalogService) SetQueue(queue *jobs.Queue) {
	s.queue = queue
}

// ListCourses returns the term's courses without their sections.
func (s *CatalogService) ListCourses(ctx context.Context, query dto.CourseQuery) ([]models.Course, error) {
	if query.TermID == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "termId is required")
	}
	courses, err := s.repo.ListByTerm(ctx, query.TermID, query.Search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// GetCourse loads one course with its sections, consulting the cache first.
func (s *CatalogService) GetCourse(ctx context.Context, termID, code string) (*models.Course, error) {
	key := courseCacheKey(termID, code)
	var cached models.Course
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		s.observeCache(true)
		return &cached, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("course cache read failed", zap.String("key", key), zap.Error(err))
	}
	s.observeCache(false)

	course, err := s.repo.FindByCode(ctx, termID, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, fmt.Sprintf("course %s not found", code))
	}
	if err := s.cache.Set(ctx, key, course, s.cacheTTL); err != nil {
		s.logger.Warn("course cache write failed", zap.String("key", key), zap.Error(err))
	}
	return course, nil
}

// LoadForPlanning returns the requested courses with sections and decoded
// activities, in the caller's order.
func (s *CatalogService) LoadForPlanning(ctx context.Context, termID string, codes []string) ([]models.Course, error) {
	courses, err := s.repo.ListByCodes(ctx, termID, codes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "none of the requested courses exist for this term")
	}
	return courses, nil
}

// Sync refreshes the listed courses from the upstream catalog. With Async set
// the work is queued and the report only acknowledges acceptance.
func (s *CatalogService) Sync(ctx context.Context, req dto.CatalogSyncRequest) (*dto.CatalogSyncReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sync payload")
	}

	if req.Async {
		if s.queue == nil {
			return nil, appErrors.Clone(appErrors.ErrInternal, "background sync is not configured")
		}
		job := jobs.Job{ID: uuid.NewString(), Type: JobTypeCatalogSync, Payload: req}
		if err := s.queue.Enqueue(job); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue sync")
		}
		return &dto.CatalogSyncReport{TermID: req.TermID, Queued: true}, nil
	}

	return s.syncNow(ctx, req)
}

// HandleSyncJob is the queue handler for JobTypeCatalogSync jobs.
func (s *CatalogService) HandleSyncJob(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.CatalogSyncRequest)
	if !ok {
		return fmt.Errorf("unexpected payload for job %s", job.ID)
	}
	report, err := s.syncNow(ctx, req)
	if err != nil {
		return err
	}
	s.logger.Info("catalog sync completed",
		zap.String("term_id", report.TermID),
		zap.Int("synced", len(report.Synced)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("sections", report.Sections))
	return nil
}

func (s *CatalogService) syncNow(ctx context.Context, req dto.CatalogSyncRequest) (*dto.CatalogSyncReport, error) {
	report := &dto.CatalogSyncReport{TermID: req.TermID}
	staleKeys := make([]string, 0, len(req.CourseCodes))

	for _, code := range req.CourseCodes {
		remote, err := s.fetchRemoteCourse(ctx, req.TermID, code)
		if err != nil {
			s.logger.Warn("catalog fetch failed", zap.String("course", code), zap.Error(err))
			report.Failed = append(report.Failed, code)
			continue
		}

		course, sections, err := normalizeRemoteCourse(req.TermID, remote)
		if err != nil {
			s.logger.Warn("catalog normalization failed", zap.String("course", code), zap.Error(err))
			report.Failed = append(report.Failed, code)
			continue
		}

		if err := s.repo.UpsertCourse(ctx, nil, course); err != nil {
			report.Failed = append(report.Failed, code)
			continue
		}
		if err := s.repo.UpsertSections(ctx, nil, sections); err != nil {
			report.Failed = append(report.Failed, code)
			continue
		}

		report.Synced = append(report.Synced, code)
		report.Sections += len(sections)
		staleKeys = append(staleKeys, courseCacheKey(req.TermID, code))
	}

	if len(staleKeys) > 0 {
		if err := s.cache.Delete(ctx, staleKeys...); err != nil {
			s.logger.Warn("failed to invalidate course cache", zap.Error(err))
		}
	}
	if len(report.Synced) == 0 && len(report.Failed) > 0 {
		return nil, appErrors.Clone(appErrors.ErrCatalogUnavailable, "no courses could be synced")
	}
	return report, nil
}

// remoteCourse is the upstream catalog's wire shape.
type remoteCourse struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Sections []struct {
		Number     string `json:"number"`
		Instructor string `json:"instructor"`
		Room       string `json:"room"`
		Meetings   []struct {
			Type    string `json:"type"`
			Day     string `json:"day"`
			Periods []int  `json:"periods"`
		} `json:"meetings"`
	} `json:"sections"`
}

func (s *CatalogService) fetchRemoteCourse(ctx context.Context, termID, code string) (*remoteCourse, error) {
	url := fmt.Sprintf("%s/terms/%s/courses/%s", s.baseURL, termID, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s not in catalog", code))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Clone(appErrors.ErrCatalogUnavailable, fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	}

	var payload remoteCourse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &payload, nil
}

// normalizeRemoteCourse folds upstream meetings into per-type activities with
// validated time blocks.
func normalizeRemoteCourse(termID string, remote *remoteCourse) (*models.Course, []models.Section, error) {
	course := &models.Course{
		Code:   remote.Code,
		TermID: termID,
		Title:  remote.Title,
	}

	sections := make([]models.Section, 0, len(remote.Sections))
	for _, rs := range remote.Sections {
		byType := make(map[models.ActivityType][]models.TimeBlock)
		order := make([]models.ActivityType, 0, len(rs.Meetings))

		for _, meeting := range rs.Meetings {
			day := models.ParseDay(meeting.Day)
			if !day.Valid() {
				return nil, nil, fmt.Errorf("course %s section %s: unknown day %q", remote.Code, rs.Number, meeting.Day)
			}
			kind := models.ParseActivityType(meeting.Type)
			if _, seen := byType[kind]; !seen {
				order = append(order, kind)
			}
			for _, period := range meeting.Periods {
				block := models.TimeBlock{Day: day, Period: period}
				if !block.Valid() {
					return nil, nil, fmt.Errorf("course %s section %s: period %d out of range", remote.Code, rs.Number, period)
				}
				byType[kind] = append(byType[kind], block)
			}
		}

		activities := make([]models.Activity, 0, len(order))
		for _, kind := range order {
			activities = append(activities, models.Activity{Type: kind, Blocks: byType[kind]})
		}

		sections = append(sections, models.Section{
			ID:         models.SectionID(remote.Code, rs.Number),
			CourseCode: remote.Code,
			TermID:     termID,
			Number:     rs.Number,
			Instructor: rs.Instructor,
			Room:       rs.Room,
			Activities: activities,
		})
	}
	return course, sections, nil
}

func (s *CatalogService) observeCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}

func courseCacheKey(termID, code string) string {
	return fmt.Sprintf("catalog:%s:%s", termID, code)
}
