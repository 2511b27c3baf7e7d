package dto

// CourseQuery filters catalog reads.
type CourseQuery struct {
	TermID string `form:"termId" json:"termId"`
	Search string `form:"search" json:"search"`
}

// CatalogSyncRequest triggers a catalog refresh for the listed courses.
type CatalogSyncRequest struct {
	TermID      string   `json:"termId" validate:"required"`
	CourseCodes []string `json:"courseCodes" validate:"required,min=1,dive,required"`
	// Async queues the sync as a background job instead of blocking.
	Async bool `json:"async"`
}

// CatalogSyncReport summarises one sync run.
type CatalogSyncReport struct {
	TermID   string   `json:"termId"`
	Synced   []string `json:"synced"`
	Failed   []string `json:"failed,omitempty"`
	Sections int      `json:"sections"`
	Queued   bool     `json:"queued,omitempty"`
}
