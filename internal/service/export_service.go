package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/uni-planner-api/internal/models"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
	"github.com/noah-isme/uni-planner-api/pkg/export"
)

// Export formats accepted by ExportPlanResult.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type planResultProvider interface {
	PlanResultSections(ctx context.Context, planID string, resultID int) (string, []models.Section, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a generated plan result as a weekly timetable grid in
// CSV or PDF form.
type ExportService struct {
	plans  planResultProvider
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(plans planResultProvider, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		plans:  plans,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// ExportPlanResult renders one result of a retained plan.
func (s *ExportService) ExportPlanResult(ctx context.Context, planID string, resultID int, format string) (*ExportFile, error) {
	termID, sections, err := s.plans.PlanResultSections(ctx, planID, resultID)
	if err != nil {
		return nil, err
	}

	dataset, err := buildTimetableGrid(sections)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lay out timetable")
	}

	base := fmt.Sprintf("plan-%s-result-%d", termID, resultID)
	switch strings.ToLower(format) {
	case ExportFormatCSV, "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Data: data}, nil
	case ExportFormatPDF:
		title := fmt.Sprintf("Weekly Plan %s", termID)
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unsupported export format %q", format))
	}
}

// buildTimetableGrid lays sections out as periods down the side and days
// across the top. Cells with a tolerated overlap list every occupant.
func buildTimetableGrid(sections []models.Section) (export.Dataset, error) {
	headers := []string{"Period"}
	days := []models.Day{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday, models.Saturday}
	for _, day := range days {
		headers = append(headers, dayHeader(day))
	}

	cells := make(map[models.TimeBlock][]string)
	for _, section := range sections {
		for _, activity := range section.Activities {
			label := fmt.Sprintf("%s %s", models.SectionID(section.CourseCode, section.Number), activity.Type)
			if section.Room != "" {
				label += " @" + section.Room
			}
			for _, block := range activity.Blocks {
				if !block.Valid() {
					return export.Dataset{}, fmt.Errorf("section %s: invalid block day=%d period=%d", section.ID, block.Day, block.Period)
				}
				cells[block] = append(cells[block], label)
			}
		}
	}

	rows := make([]map[string]string, 0, models.PeriodsPerDay)
	for period := 1; period <= models.PeriodsPerDay; period++ {
		row := map[string]string{"Period": fmt.Sprintf("%d", period)}
		for _, day := range days {
			row[dayHeader(day)] = strings.Join(cells[models.TimeBlock{Day: day, Period: period}], " / ")
		}
		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}, nil
}

// dayHeader turns the wire-level day name into a column label ("Monday").
func dayHeader(day models.Day) string {
	name := day.String()
	if name == "" {
		return name
	}
	return name[:1] + strings.ToLower(name[1:])
}
