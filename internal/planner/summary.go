package planner

import (
	"fmt"
	"strings"
)

// DescriptionDelimiter joins section labels in a combination description.
const DescriptionDelimiter = ", "

// Summary carries the human-facing statistics of one generated combination.
type Summary struct {
	OccupiedBlocks int      `json:"occupied_blocks"`
	CourseCodes    []string `json:"course_codes"`
	Description    string   `json:"description"`
}

// Summarize derives display statistics from a result. Pure and side-effect
// free; section order follows the order stored in the result.
func Summarize(result Result) Summary {
	labels := make([]string, 0, len(result.Sections))
	codes := make([]string, 0, len(result.Sections))
	seen := make(map[string]struct{}, len(result.Sections))

	for _, section := range result.Sections {
		labels = append(labels, fmt.Sprintf("%s-%s", section.CourseCode, section.Number))
		if _, ok := seen[section.CourseCode]; !ok {
			seen[section.CourseCode] = struct{}{}
			codes = append(codes, section.CourseCode)
		}
	}

	return Summary{
		OccupiedBlocks: result.TotalMask.OccupiedCount(),
		CourseCodes:    codes,
		Description:    strings.Join(labels, DescriptionDelimiter),
	}
}
