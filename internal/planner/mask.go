// Package planner enumerates conflict-free weekly timetables for a set of
// required courses. Each course contributes exactly one of its candidate
// sections; occupancy is tracked as a 48-bit mask so that pairwise overlap
// checks inside the search cost a single AND.
package planner

import (
	"errors"
	"math/bits"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

const (
	daysPerWeek = 6
	blockCount  = daysPerWeek * models.PeriodsPerDay
)

var (
	// ErrInvalidBlock flags a block outside the 6-day, 8-period grid. Blocks
	// are expected to be validated at the ingestion boundary; seeing this
	// here means malformed catalog data reached the core.
	ErrInvalidBlock = errors.New("time block outside the weekly grid")
	// ErrNoCourses flags an empty course list handed to Generate.
	ErrNoCourses = errors.New("at least one course is required")
)

// OccupancyMask encodes weekly occupancy with one bit per grid cell. Bit
// index is (day-1)*8 + (period-1); the upper 16 bits of the word stay zero.
// A mask is a pure function of its block set and is never mutated in place.
type OccupancyMask uint64

// BlockBit maps a block to its bit index in [0, 48).
func BlockBit(block models.TimeBlock) (int, error) {
	if !block.Valid() {
		return 0, ErrInvalidBlock
	}
	return (int(block.Day)-1)*models.PeriodsPerDay + block.Period - 1, nil
}

// BlockFromBit is the inverse of BlockBit. Defined only for indices in [0, 48).
func BlockFromBit(bit int) models.TimeBlock {
	return models.TimeBlock{
		Day:    models.Day(bit/models.PeriodsPerDay + 1),
		Period: bit%models.PeriodsPerDay + 1,
	}
}

// BlocksToMask ORs the given blocks into a mask. Empty input yields the zero
// mask. Duplicate blocks are harmless since OR is idempotent.
func BlocksToMask(blocks []models.TimeBlock) (OccupancyMask, error) {
	var mask OccupancyMask
	for _, block := range blocks {
		bit, err := BlockBit(block)
		if err != nil {
			return 0, err
		}
		mask |= 1 << uint(bit)
	}
	return mask, nil
}

// ActivityMask returns the occupancy of a single activity.
func ActivityMask(activity models.Activity) (OccupancyMask, error) {
	return BlocksToMask(activity.Blocks)
}

// SectionMask returns the union occupancy over all activities of a section.
func SectionMask(section models.Section) (OccupancyMask, error) {
	var mask OccupancyMask
	for _, activity := range section.Activities {
		m, err := ActivityMask(activity)
		if err != nil {
			return 0, err
		}
		mask |= m
	}
	return mask, nil
}

// Overlaps reports whether the two masks share any block.
func (m OccupancyMask) Overlaps(other OccupancyMask) bool {
	return m&other != 0
}

// Blocks expands the mask back into its block list, ordered earliest day then
// earliest period.
func (m OccupancyMask) Blocks() []models.TimeBlock {
	var blocks []models.TimeBlock
	for bit := 0; bit < blockCount; bit++ {
		if m&(1<<uint(bit)) != 0 {
			blocks = append(blocks, BlockFromBit(bit))
		}
	}
	return blocks
}

// OccupiedCount returns the number of occupied blocks.
func (m OccupancyMask) OccupiedCount() int {
	return bits.OnesCount64(uint64(m))
}

// lowestBlock returns the earliest occupied block of a non-zero mask.
func (m OccupancyMask) lowestBlock() models.TimeBlock {
	return BlockFromBit(bits.TrailingZeros64(uint64(m)))
}
