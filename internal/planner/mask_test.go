package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

func TestBlockBitBijection(t *testing.T) {
	seen := make(map[int]struct{})
	for day := models.Monday; day <= models.Saturday; day++ {
		for period := 1; period <= models.PeriodsPerDay; period++ {
			block := models.TimeBlock{Day: day, Period: period}
			bit, err := BlockBit(block)
			require.NoError(t, err)
			require.GreaterOrEqual(t, bit, 0)
			require.Less(t, bit, 48)

			_, dup := seen[bit]
			require.False(t, dup, "bit %d assigned twice", bit)
			seen[bit] = struct{}{}

			assert.Equal(t, block, BlockFromBit(bit))
		}
	}
	assert.Len(t, seen, 48)
}

func TestBlockBitRejectsOutOfRange(t *testing.T) {
	cases := []models.TimeBlock{
		{Day: models.Monday, Period: 0},
		{Day: models.Monday, Period: 9},
		{Day: 0, Period: 1},
		{Day: 7, Period: 1},
	}
	for _, block := range cases {
		_, err := BlockBit(block)
		assert.ErrorIs(t, err, ErrInvalidBlock, "block %+v", block)
	}
}

func TestBlocksToMaskEmptyAndDuplicates(t *testing.T) {
	mask, err := BlocksToMask(nil)
	require.NoError(t, err)
	assert.Equal(t, OccupancyMask(0), mask)

	block := models.TimeBlock{Day: models.Tuesday, Period: 3}
	mask, err = BlocksToMask([]models.TimeBlock{block, block, block})
	require.NoError(t, err)
	assert.Equal(t, 1, mask.OccupiedCount())
}

func TestOverlapSymmetry(t *testing.T) {
	a, err := BlocksToMask([]models.TimeBlock{
		{Day: models.Monday, Period: 1},
		{Day: models.Wednesday, Period: 5},
	})
	require.NoError(t, err)
	b, err := BlocksToMask([]models.TimeBlock{
		{Day: models.Wednesday, Period: 5},
		{Day: models.Friday, Period: 8},
	})
	require.NoError(t, err)
	c, err := BlocksToMask([]models.TimeBlock{{Day: models.Saturday, Period: 1}})
	require.NoError(t, err)

	assert.Equal(t, a.Overlaps(b), b.Overlaps(a))
	assert.True(t, a.Overlaps(b))
	assert.Equal(t, a.Overlaps(c), c.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}

func TestMaskUnionIdempotence(t *testing.T) {
	a, err := BlocksToMask([]models.TimeBlock{
		{Day: models.Monday, Period: 2},
		{Day: models.Thursday, Period: 7},
	})
	require.NoError(t, err)
	b, err := BlocksToMask([]models.TimeBlock{{Day: models.Monday, Period: 2}})
	require.NoError(t, err)

	assert.Equal(t, a, a|a)
	assert.Equal(t, a|b, b|a)
	assert.Equal(t, (a|b)|a, a|(b|a))
}

func TestSectionMaskUnionOverActivities(t *testing.T) {
	section := models.Section{
		ID:         "CS101-01",
		CourseCode: "CS101",
		Activities: []models.Activity{
			{Type: models.ActivityLecture, Blocks: []models.TimeBlock{
				{Day: models.Monday, Period: 1},
				{Day: models.Wednesday, Period: 1},
			}},
			{Type: models.ActivityLab, Blocks: []models.TimeBlock{
				{Day: models.Friday, Period: 5},
				// Shared with the lecture: unions are idempotent.
				{Day: models.Monday, Period: 1},
			}},
		},
	}

	mask, err := SectionMask(section)
	require.NoError(t, err)
	assert.Equal(t, 3, mask.OccupiedCount())
}

func TestMaskBlocksDeterministicOrder(t *testing.T) {
	input := []models.TimeBlock{
		{Day: models.Saturday, Period: 8},
		{Day: models.Monday, Period: 2},
		{Day: models.Monday, Period: 1},
		{Day: models.Tuesday, Period: 4},
	}
	mask, err := BlocksToMask(input)
	require.NoError(t, err)

	expanded := mask.Blocks()
	require.Len(t, expanded, 4)
	assert.Equal(t, models.TimeBlock{Day: models.Monday, Period: 1}, expanded[0])
	assert.Equal(t, models.TimeBlock{Day: models.Monday, Period: 2}, expanded[1])
	assert.Equal(t, models.TimeBlock{Day: models.Tuesday, Period: 4}, expanded[2])
	assert.Equal(t, models.TimeBlock{Day: models.Saturday, Period: 8}, expanded[3])
}
