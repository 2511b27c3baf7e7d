package planner

import (
	"math"
	"sort"
	"strings"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

// DefaultTopPairs caps the diagnostic report when the search comes up empty.
const DefaultTopPairs = 3

// ConflictExample is the first concrete collision observed for a course pair.
type ConflictExample struct {
	CandidateSectionID string           `json:"candidate_section_id"`
	ExistingSectionID  string           `json:"existing_section_id"`
	Block              models.TimeBlock `json:"block"`
}

// PairDiagnostic summarises how often two courses collided during an
// unsuccessful search, and where.
type PairDiagnostic struct {
	PairKey    string          `json:"pair_key"`
	CourseA    string          `json:"course_a"`
	CourseB    string          `json:"course_b"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
	PeakDay    models.Day      `json:"peak_day"`
	PeakPeriod int             `json:"peak_period"`
	Example    ConflictExample `json:"example"`
}

// conflictRecorder accumulates rejection statistics for one generation run.
// It is created fresh per call and discarded after the top-pairs report.
type conflictRecorder struct {
	total int
	pairs map[string]*pairConflicts
	order []string
}

type pairConflicts struct {
	key        string
	count      int
	blocks     map[models.TimeBlock]int
	blockOrder []models.TimeBlock
	example    ConflictExample
}

func newConflictRecorder() *conflictRecorder {
	return &conflictRecorder{pairs: make(map[string]*pairConflicts)}
}

// pairKey joins the two course codes in lexicographic order so that A-vs-B
// and B-vs-A aggregate together.
func pairKey(courseA, courseB string) string {
	if courseB < courseA {
		courseA, courseB = courseB, courseA
	}
	return courseA + "|" + courseB
}

// Record registers one rejection of candidateSectionID against
// existingSectionID at the given block. The first example per pair wins;
// later hits only bump counters.
func (r *conflictRecorder) Record(candidateCourse, candidateSectionID, existingCourse, existingSectionID string, block models.TimeBlock) {
	r.total++

	key := pairKey(candidateCourse, existingCourse)
	pair, ok := r.pairs[key]
	if !ok {
		pair = &pairConflicts{
			key:    key,
			blocks: make(map[models.TimeBlock]int),
			example: ConflictExample{
				CandidateSectionID: candidateSectionID,
				ExistingSectionID:  existingSectionID,
				Block:              block,
			},
		}
		r.pairs[key] = pair
		r.order = append(r.order, key)
	}
	pair.count++
	if _, seen := pair.blocks[block]; !seen {
		pair.blockOrder = append(pair.blockOrder, block)
	}
	pair.blocks[block]++
}

// TopPairs ranks pairs by rejection count descending and returns at most
// limit entries. Returns nil when nothing was recorded; callers must treat
// that as "no diagnostic available", not "zero conflicts".
func (r *conflictRecorder) TopPairs(limit int) []PairDiagnostic {
	if r.total == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultTopPairs
	}

	ranked := make([]*pairConflicts, 0, len(r.order))
	for _, key := range r.order {
		ranked = append(ranked, r.pairs[key])
	}
	// Stable keeps first-encountered order on ties, which makes the report
	// reproducible for a fixed input ordering.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	report := make([]PairDiagnostic, 0, len(ranked))
	for _, pair := range ranked {
		peak := pair.blockOrder[0]
		for _, block := range pair.blockOrder[1:] {
			if pair.blocks[block] > pair.blocks[peak] {
				peak = block
			}
		}
		courseA, courseB := SplitPairKey(pair.key)
		report = append(report, PairDiagnostic{
			PairKey:    pair.key,
			CourseA:    courseA,
			CourseB:    courseB,
			Count:      pair.count,
			Percentage: math.Round(float64(pair.count)/float64(r.total)*1000) / 10,
			PeakDay:    peak.Day,
			PeakPeriod: peak.Period,
			Example:    pair.example,
		})
	}
	return report
}

// SplitPairKey returns the two course codes encoded in a pair key.
func SplitPairKey(key string) (string, string) {
	parts := strings.SplitN(key, "|", 2)
	if len(parts) != 2 {
		return key, ""
	}
	return parts[0], parts[1]
}
