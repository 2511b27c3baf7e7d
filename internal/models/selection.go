package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Selection is a user's saved set of chosen section ids for one term. It only
// seeds and restores UI state; the plan generator never consults it.
type Selection struct {
	ID            string         `db:"id" json:"id"`
	UserID        string         `db:"user_id" json:"user_id"`
	TermID        string         `db:"term_id" json:"term_id"`
	Label         string         `db:"label" json:"label"`
	RawSectionIDs types.JSONText `db:"section_ids" json:"-"`
	SectionIDs    []string       `db:"-" json:"section_ids"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// DecodeSectionIDs populates SectionIDs from the stored JSONB column.
func (s *Selection) DecodeSectionIDs() error {
	if len(s.RawSectionIDs) == 0 {
		s.SectionIDs = nil
		return nil
	}
	if err := json.Unmarshal(s.RawSectionIDs, &s.SectionIDs); err != nil {
		return fmt.Errorf("decode section ids for selection %s: %w", s.ID, err)
	}
	return nil
}

// EncodeSectionIDs serialises SectionIDs into the stored JSONB column.
func (s *Selection) EncodeSectionIDs() error {
	raw, err := json.Marshal(s.SectionIDs)
	if err != nil {
		return fmt.Errorf("encode section ids for selection %s: %w", s.ID, err)
	}
	s.RawSectionIDs = types.JSONText(raw)
	return nil
}
