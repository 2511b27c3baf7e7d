package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

func TestRecorderPairKeyOrderIndependent(t *testing.T) {
	r := newConflictRecorder()
	block := models.TimeBlock{Day: models.Monday, Period: 1}

	r.Record("MATH201", "MATH201-01", "CS101", "CS101-02", block)
	r.Record("CS101", "CS101-02", "MATH201", "MATH201-01", block)

	require.Len(t, r.pairs, 1)
	assert.Equal(t, 2, r.pairs[pairKey("CS101", "MATH201")].count)
	assert.Equal(t, 2, r.total)
}

func TestRecorderFirstExampleWins(t *testing.T) {
	r := newConflictRecorder()

	r.Record("B", "B-01", "A", "A-01", models.TimeBlock{Day: models.Monday, Period: 1})
	r.Record("B", "B-02", "A", "A-03", models.TimeBlock{Day: models.Tuesday, Period: 2})

	report := r.TopPairs(3)
	require.Len(t, report, 1)
	assert.Equal(t, "B-01", report[0].Example.CandidateSectionID)
	assert.Equal(t, "A-01", report[0].Example.ExistingSectionID)
	assert.Equal(t, models.Monday, report[0].Example.Block.Day)
}

func TestTopPairsCourseOrderMatchesPairKey(t *testing.T) {
	r := newConflictRecorder()
	block := models.TimeBlock{Day: models.Monday, Period: 1}

	// Candidate sorts after existing: the reported pair must still come
	// out in the key's lexicographic order.
	r.Record("CHEM120", "CHEM120-01", "BIO110", "BIO110-01", block)

	report := r.TopPairs(1)
	require.Len(t, report, 1)
	assert.Equal(t, "BIO110", report[0].CourseA)
	assert.Equal(t, "CHEM120", report[0].CourseB)
	assert.Equal(t, pairKey(report[0].CourseA, report[0].CourseB), report[0].PairKey)
	assert.Equal(t, "CHEM120-01", report[0].Example.CandidateSectionID)
	assert.Equal(t, "BIO110-01", report[0].Example.ExistingSectionID)
}

func TestTopPairsRankingAndPercentage(t *testing.T) {
	r := newConflictRecorder()
	mon1 := models.TimeBlock{Day: models.Monday, Period: 1}
	tue3 := models.TimeBlock{Day: models.Tuesday, Period: 3}

	for i := 0; i < 3; i++ {
		r.Record("A", "A-01", "B", "B-01", mon1)
	}
	r.Record("A", "A-01", "C", "C-01", tue3)
	r.Record("C", "C-01", "D", "D-01", mon1)
	r.Record("C", "C-02", "D", "D-01", mon1)

	report := r.TopPairs(2)
	require.Len(t, report, 2)

	assert.Equal(t, pairKey("A", "B"), report[0].PairKey)
	assert.Equal(t, 3, report[0].Count)
	assert.InDelta(t, 50.0, report[0].Percentage, 0.01)

	assert.Equal(t, pairKey("C", "D"), report[1].PairKey)
	assert.InDelta(t, 33.3, report[1].Percentage, 0.01)
}

func TestTopPairsPeakBlock(t *testing.T) {
	r := newConflictRecorder()
	mon1 := models.TimeBlock{Day: models.Monday, Period: 1}
	thu6 := models.TimeBlock{Day: models.Thursday, Period: 6}

	r.Record("A", "A-01", "B", "B-01", mon1)
	r.Record("A", "A-02", "B", "B-01", thu6)
	r.Record("A", "A-03", "B", "B-01", thu6)

	report := r.TopPairs(1)
	require.Len(t, report, 1)
	assert.Equal(t, models.Thursday, report[0].PeakDay)
	assert.Equal(t, 6, report[0].PeakPeriod)
}

func TestTopPairsTieKeepsFirstEncountered(t *testing.T) {
	r := newConflictRecorder()
	mon1 := models.TimeBlock{Day: models.Monday, Period: 1}
	tue1 := models.TimeBlock{Day: models.Tuesday, Period: 1}

	// Equal hit counts per block: the first-seen block stays the peak.
	r.Record("A", "A-01", "B", "B-01", mon1)
	r.Record("A", "A-02", "B", "B-01", tue1)

	report := r.TopPairs(1)
	require.Len(t, report, 1)
	assert.Equal(t, models.Monday, report[0].PeakDay)
	assert.Equal(t, 1, report[0].PeakPeriod)
}

func TestTopPairsEmptyWhenNothingRecorded(t *testing.T) {
	r := newConflictRecorder()
	assert.Nil(t, r.TopPairs(3))
}

func TestSplitPairKey(t *testing.T) {
	a, b := SplitPairKey(pairKey("PHY110", "CS101"))
	assert.Equal(t, "CS101", a)
	assert.Equal(t, "PHY110", b)
}
