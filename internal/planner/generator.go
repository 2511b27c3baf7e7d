package planner

import (
	"context"
	"sort"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

// DefaultMaxResults caps a generation run unless the caller asks otherwise.
const DefaultMaxResults = 500

// OverridePolicy maps (courseCode, activityType) to "may participate in an
// otherwise-blocking overlap". Absent keys mean not permitted.
type OverridePolicy map[string]bool

func overrideKey(courseCode string, activityType models.ActivityType) string {
	return courseCode + "|" + string(activityType)
}

// Allow marks the given course's activities of the given type as overlap
// tolerant.
func (p OverridePolicy) Allow(courseCode string, activityType models.ActivityType) {
	p[overrideKey(courseCode, activityType)] = true
}

func (p OverridePolicy) permits(courseCode string, activityType models.ActivityType) bool {
	return p[overrideKey(courseCode, activityType)]
}

// Request describes one generation run. Courses are treated as immutable for
// the duration of the call.
type Request struct {
	Courses []models.Course
	// MaxResults caps the number of emitted combinations; zero or negative
	// falls back to DefaultMaxResults.
	MaxResults int
	// SectionFilter optionally restricts each course to a subset of its
	// section ids. An empty or missing list means all sections are eligible.
	SectionFilter map[string][]string
	// Overrides is the permitted-overlap policy. Nil or empty means no
	// overlap is ever tolerated.
	Overrides OverridePolicy
}

// Result is one complete conflict-free assignment: exactly one section per
// surviving input course, in the caller's original course order.
type Result struct {
	ID                  int                `json:"id"`
	Sections            []models.Section   `json:"sections"`
	TotalMask           OccupancyMask      `json:"total_mask"`
	HasPermittedOverlap bool               `json:"has_permitted_overlap"`
}

// Outcome carries the results of one run plus, when the run produced nothing
// and at least one conflict was recorded, the ranked diagnostic report.
type Outcome struct {
	Results        []Result         `json:"results"`
	Diagnostics    []PairDiagnostic `json:"diagnostics,omitempty"`
	TotalConflicts int              `json:"total_conflicts"`
	// DroppedCourses lists courses excluded because their section filter
	// matched nothing. Callers relying on "all requested courses appear"
	// must check this.
	DroppedCourses []string `json:"dropped_courses,omitempty"`
}

type candidateActivity struct {
	courseCode   string
	activityType models.ActivityType
	mask         OccupancyMask
}

type candidateSection struct {
	section    models.Section
	mask       OccupancyMask
	activities []candidateActivity
}

type candidateCourse struct {
	code     string
	sections []candidateSection
	// outputIndex restores the caller's course order when a full assignment
	// is emitted, undoing the fewest-sections-first reordering.
	outputIndex int
}

// Generate enumerates all conflict-free section combinations, up to the
// result cap. ctx is checked at every recursion level so long searches can be
// abandoned cooperatively.
func Generate(ctx context.Context, req Request) (*Outcome, error) {
	if len(req.Courses) == 0 {
		return nil, ErrNoCourses
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	candidates, dropped, err := buildCandidates(req)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{DroppedCourses: dropped}
	if len(candidates) == 0 {
		// Every course was filtered away: a degenerate search space, not a
		// conflict. TotalConflicts stays zero so callers can tell the two
		// empty outcomes apart.
		return outcome, nil
	}

	// Most constrained course first: failing early prunes the search tree
	// fastest. Stable so equal-sized courses keep their input order, which
	// keeps first-example diagnostics and cap prefixes deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].sections) < len(candidates[j].sections)
	})

	search := &searchState{
		courses:    candidates,
		maxResults: maxResults,
		overrides:  req.Overrides,
		recorder:   newConflictRecorder(),
		chosen:     make([]chosenPick, 0, len(candidates)),
	}
	if err := search.explore(ctx, 0, 0, false); err != nil {
		return nil, err
	}

	outcome.Results = search.results
	outcome.TotalConflicts = search.recorder.total
	if len(search.results) == 0 && search.recorder.total > 0 {
		outcome.Diagnostics = search.recorder.TopPairs(DefaultTopPairs)
	}
	return outcome, nil
}

func buildCandidates(req Request) ([]*candidateCourse, []string, error) {
	candidates := make([]*candidateCourse, 0, len(req.Courses))
	var dropped []string

	for _, course := range req.Courses {
		wanted := make(map[string]struct{})
		for _, id := range req.SectionFilter[course.Code] {
			wanted[id] = struct{}{}
		}

		cand := &candidateCourse{code: course.Code}
		for _, section := range course.Sections {
			if len(wanted) > 0 {
				if _, ok := wanted[section.ID]; !ok {
					continue
				}
			}
			if len(section.Activities) == 0 {
				// Unusable: a section must occupy at least one block.
				continue
			}
			cs := candidateSection{section: section}
			for _, activity := range section.Activities {
				mask, err := ActivityMask(activity)
				if err != nil {
					return nil, nil, err
				}
				cs.mask |= mask
				cs.activities = append(cs.activities, candidateActivity{
					courseCode:   course.Code,
					activityType: activity.Type,
					mask:         mask,
				})
			}
			cand.sections = append(cand.sections, cs)
		}

		if len(cand.sections) == 0 {
			dropped = append(dropped, course.Code)
			continue
		}
		cand.outputIndex = len(candidates)
		candidates = append(candidates, cand)
	}
	return candidates, dropped, nil
}

type chosenPick struct {
	course  *candidateCourse
	section *candidateSection
}

type searchState struct {
	courses    []*candidateCourse
	maxResults int
	overrides  OverridePolicy
	recorder   *conflictRecorder
	chosen     []chosenPick
	results    []Result
}

func (s *searchState) explore(ctx context.Context, depth int, acc OccupancyMask, permitted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.results) >= s.maxResults {
		return nil
	}
	if depth == len(s.courses) {
		s.emit(acc, permitted)
		return nil
	}

	course := s.courses[depth]
	for i := range course.sections {
		candidate := &course.sections[i]
		viaOverride := false

		if acc.Overlaps(candidate.mask) {
			if len(s.overrides) == 0 || !s.overrideEligible(candidate) {
				s.recordRejection(course.code, candidate)
				continue
			}
			viaOverride = true
		}

		s.chosen = append(s.chosen, chosenPick{course: course, section: candidate})
		err := s.explore(ctx, depth+1, acc|candidate.mask, permitted || viaOverride)
		s.chosen = s.chosen[:len(s.chosen)-1]
		if err != nil {
			return err
		}
		if len(s.results) >= s.maxResults {
			return nil
		}
	}
	return nil
}

func (s *searchState) emit(acc OccupancyMask, permitted bool) {
	sections := make([]models.Section, len(s.chosen))
	for _, pick := range s.chosen {
		sections[pick.course.outputIndex] = pick.section.section
	}
	s.results = append(s.results, Result{
		ID:                  len(s.results) + 1,
		Sections:            sections,
		TotalMask:           acc,
		HasPermittedOverlap: permitted,
	})
}

// recordRejection charges the collision to the first committed section that
// overlaps the candidate, at the earliest shared block.
func (s *searchState) recordRejection(candidateCourse string, candidate *candidateSection) {
	for _, pick := range s.chosen {
		overlap := pick.section.mask & candidate.mask
		if overlap == 0 {
			continue
		}
		s.recorder.Record(
			candidateCourse,
			candidate.section.ID,
			pick.course.code,
			pick.section.section.ID,
			overlap.lowestBlock(),
		)
		return
	}
}

// overrideEligible applies the activity-level policy: for each candidate
// activity, collect the committed activities it collides with and count the
// participants (them plus the candidate activity) whose (course, type) is not
// flagged. The overlap stands only when at most one participant lacks
// permission; a single mandatory activity can force one exception, two
// non-consenting activities cannot collide.
func (s *searchState) overrideEligible(candidate *candidateSection) bool {
	for _, ca := range candidate.activities {
		notPermitted := 0
		conflicts := false
		for _, pick := range s.chosen {
			for _, existing := range pick.section.activities {
				if !ca.mask.Overlaps(existing.mask) {
					continue
				}
				conflicts = true
				if !s.overrides.permits(existing.courseCode, existing.activityType) {
					notPermitted++
				}
			}
		}
		if !conflicts {
			continue
		}
		if !s.overrides.permits(ca.courseCode, ca.activityType) {
			notPermitted++
		}
		if notPermitted > 1 {
			return false
		}
	}
	return true
}
