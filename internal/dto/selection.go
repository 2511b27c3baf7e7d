package dto

// SaveSelectionRequest stores the user's chosen section ids for a term.
// Saving again with the same label replaces the previous set.
type SaveSelectionRequest struct {
	TermID     string   `json:"termId" validate:"required"`
	Label      string   `json:"label" validate:"omitempty,max=64"`
	SectionIDs []string `json:"sectionIds" validate:"required,min=1,dive,required"`
}

// SelectionQuery scopes selection reads to one term.
type SelectionQuery struct {
	TermID string `form:"termId" json:"termId"`
}
