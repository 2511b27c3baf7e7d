package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Day identifies a teaching day. The week runs Monday through Saturday;
// Sunday carries no classes and is not representable.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// PeriodsPerDay is the number of class periods in the daily grid. Periods 1-4
// run before the lunch break, 5-8 after it.
const PeriodsPerDay = 8

var dayNames = map[Day]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
}

var dayIndex = map[string]Day{
	"MONDAY":    Monday,
	"TUESDAY":   Tuesday,
	"WEDNESDAY": Wednesday,
	"THURSDAY":  Thursday,
	"FRIDAY":    Friday,
	"SATURDAY":  Saturday,
}

// String returns the canonical uppercase day name.
func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DAY(%d)", int(d))
}

// Valid reports whether the day falls inside the teaching week.
func (d Day) Valid() bool {
	return d >= Monday && d <= Saturday
}

// ParseDay resolves a day name into its index. Returns 0 for unknown names.
func ParseDay(name string) Day {
	return dayIndex[strings.ToUpper(strings.TrimSpace(name))]
}

// TimeBlock is one (day, period) cell of the weekly grid, the atomic unit of
// occupancy used for conflict testing.
type TimeBlock struct {
	Day    Day `json:"day"`
	Period int `json:"period"`
}

// Valid reports whether the block lies inside the 6x8 grid.
func (b TimeBlock) Valid() bool {
	return b.Day.Valid() && b.Period >= 1 && b.Period <= PeriodsPerDay
}

// ActivityType classifies a group of meetings within a section. It drives the
// permitted-overlap policy and display colour only; it carries no scheduling
// semantics of its own.
type ActivityType string

const (
	ActivityLecture   ActivityType = "LECTURE"
	ActivityLab       ActivityType = "LAB"
	ActivityTutorial  ActivityType = "TUTORIAL"
	ActivityWorkshop  ActivityType = "WORKSHOP"
	ActivityFieldwork ActivityType = "FIELDWORK"
	ActivityPracticum ActivityType = "PRACTICUM"
	ActivityOther     ActivityType = "OTHER"
)

var activityTypes = map[ActivityType]struct{}{
	ActivityLecture:   {},
	ActivityLab:       {},
	ActivityTutorial:  {},
	ActivityWorkshop:  {},
	ActivityFieldwork: {},
	ActivityPracticum: {},
	ActivityOther:     {},
}

// ParseActivityType normalises a raw tag. Unknown tags map to ActivityOther.
func ParseActivityType(raw string) ActivityType {
	t := ActivityType(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := activityTypes[t]; ok {
		return t
	}
	return ActivityOther
}

// Activity is a typed sub-schedule within a section, e.g. the lecture
// meetings versus the lab meetings. All blocks in one activity share a type.
type Activity struct {
	Type   ActivityType `json:"type"`
	Blocks []TimeBlock  `json:"blocks"`
}

// Section is one offered instance of a course with its own meeting pattern.
// Activities are persisted as a JSONB document; RawActivities carries the
// stored form and Activities the decoded one.
type Section struct {
	ID            string         `db:"id" json:"id"`
	CourseCode    string         `db:"course_code" json:"course_code"`
	TermID        string         `db:"term_id" json:"term_id"`
	Number        string         `db:"number" json:"number"`
	Instructor    string         `db:"instructor" json:"instructor,omitempty"`
	Room          string         `db:"room" json:"room,omitempty"`
	RawActivities types.JSONText `db:"activities" json:"-"`
	Activities    []Activity     `db:"-" json:"activities"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SectionID derives the stable section identifier from course code and
// section number.
func SectionID(courseCode, number string) string {
	return fmt.Sprintf("%s-%s", courseCode, number)
}

// DecodeActivities populates Activities from the stored JSONB column.
func (s *Section) DecodeActivities() error {
	if len(s.RawActivities) == 0 {
		s.Activities = nil
		return nil
	}
	if err := json.Unmarshal(s.RawActivities, &s.Activities); err != nil {
		return fmt.Errorf("decode activities for section %s: %w", s.ID, err)
	}
	return nil
}

// EncodeActivities serialises Activities into the stored JSONB column.
func (s *Section) EncodeActivities() error {
	raw, err := json.Marshal(s.Activities)
	if err != nil {
		return fmt.Errorf("encode activities for section %s: %w", s.ID, err)
	}
	s.RawActivities = types.JSONText(raw)
	return nil
}

// Course groups the offered sections of one catalog entry within a term.
type Course struct {
	Code      string    `db:"code" json:"code"`
	TermID    string    `db:"term_id" json:"term_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Sections  []Section `db:"-" json:"sections"`
}
