package dto

import (
	"time"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

// SectionFilterRequest restricts a course to a subset of its sections. An
// empty SectionIDs list means no restriction.
type SectionFilterRequest struct {
	CourseCode string   `json:"courseCode" validate:"required"`
	SectionIDs []string `json:"sectionIds"`
}

// OverrideRuleRequest flags one course's activities of one type as allowed
// to participate in an otherwise-blocking overlap.
type OverrideRuleRequest struct {
	CourseCode   string `json:"courseCode" validate:"required"`
	ActivityType string `json:"activityType" validate:"required"`
}

// GeneratePlanRequest asks the planner to enumerate conflict-free section
// combinations for the listed courses within a term.
type GeneratePlanRequest struct {
	TermID         string                 `json:"termId" validate:"required"`
	CourseCodes    []string               `json:"courseCodes" validate:"required,min=1,dive,required"`
	MaxResults     int                    `json:"maxResults" validate:"omitempty,min=1,max=2000"`
	SectionFilters []SectionFilterRequest `json:"sectionFilters" validate:"omitempty,dive"`
	Overrides      []OverrideRuleRequest  `json:"overrides" validate:"omitempty,dive"`
}

// SectionView is the wire shape of one chosen section.
type SectionView struct {
	ID         string            `json:"id"`
	CourseCode string            `json:"courseCode"`
	Number     string            `json:"number"`
	Instructor string            `json:"instructor,omitempty"`
	Room       string            `json:"room,omitempty"`
	Activities []models.Activity `json:"activities"`
}

// PlanResultView is one generated combination plus its display summary.
type PlanResultView struct {
	ID                  int                `json:"id"`
	Sections            []SectionView      `json:"sections"`
	OccupiedBlocks      int                `json:"occupiedBlocks"`
	Blocks              []models.TimeBlock `json:"blocks"`
	Description         string             `json:"description"`
	HasPermittedOverlap bool               `json:"hasPermittedOverlap"`
}

// ConflictExampleView is one concrete collision shown alongside a pair
// diagnostic.
type ConflictExampleView struct {
	CandidateSectionID string `json:"candidateSectionId"`
	ExistingSectionID  string `json:"existingSectionId"`
	Day                string `json:"day"`
	Period             int    `json:"period"`
}

// PairDiagnosticView reports one frequently-colliding course pair.
type PairDiagnosticView struct {
	CourseA    string              `json:"courseA"`
	CourseB    string              `json:"courseB"`
	Percentage float64             `json:"percentage"`
	PeakDay    string              `json:"peakDay"`
	PeakPeriod int                 `json:"peakPeriod"`
	Example    ConflictExampleView `json:"example"`
}

// GeneratePlanResponse returns the enumerated combinations, or the conflict
// diagnostics when nothing fit.
type GeneratePlanResponse struct {
	PlanID         string               `json:"planId"`
	TermID         string               `json:"termId"`
	Results        []PlanResultView     `json:"results"`
	Diagnostics    []PairDiagnosticView `json:"diagnostics,omitempty"`
	TotalConflicts int                  `json:"totalConflicts"`
	DroppedCourses []string             `json:"droppedCourses,omitempty"`
	CapReached     bool                 `json:"capReached"`
	GeneratedAt    time.Time            `json:"generatedAt"`
}

// SharePlanResponse carries a signed share-link token for one result.
type SharePlanResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SharedPlanView resolves a share token back into its sections.
type SharedPlanView struct {
	TermID     string   `json:"termId"`
	SectionIDs []string `json:"sectionIds"`
}
