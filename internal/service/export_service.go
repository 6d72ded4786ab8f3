package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-records/internal/dto"
	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
	"github.com/noah-isme/sma-records/pkg/export"
)

type reportRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

type reportGenerator interface {
	Generate(ctx context.Context, kind dto.ReportKind) (*dto.Report, error)
}

// ExportedReport is a rendered report ready for download.
type ExportedReport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders reports into downloadable files.
type ExportService struct {
	reports   reportGenerator
	renderers map[dto.ReportFormat]reportRenderer
	logger    *zap.Logger
}

// NewExportService constructs the export service with the CSV and PDF renderers.
func NewExportService(reports reportGenerator, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports: reports,
		renderers: map[dto.ReportFormat]reportRenderer{
			dto.ReportFormatCSV: export.NewCSVExporter(),
			dto.ReportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// Export generates the report of kind and renders it in format.
func (s *ExportService) Export(ctx context.Context, kind dto.ReportKind, format dto.ReportFormat) (*ExportedReport, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	report, err := s.reports.Generate(ctx, kind)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(ReportDataset(*report))
	if err != nil {
		s.logger.Error("render report", zap.String("kind", string(kind)), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.WrapKind(err, appErrors.ErrInternal, "failed to render report")
	}
	return &ExportedReport{
		Filename:    fmt.Sprintf("%s-report-%s.%s", kind, report.GeneratedAt.Format(models.DateLayout), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// ReportDataset flattens a report into the tabular shape the renderers consume.
func ReportDataset(report dto.Report) export.Dataset {
	data := export.Dataset{Title: report.Title}
	switch {
	case report.Attendance != nil:
		body := report.Attendance
		data.Summary = []export.SummaryLine{
			{Label: "Total Records", Value: strconv.Itoa(body.TotalRecords)},
			{Label: "Reporting Days", Value: strconv.Itoa(body.ReportingDays)},
		}
		data.Headers = []string{"Date", "Present", "Absent", "Total", "Rate"}
		for _, day := range body.Days {
			data.Rows = append(data.Rows, map[string]string{
				"Date":    day.Date,
				"Present": strconv.Itoa(day.Present),
				"Absent":  strconv.Itoa(day.Absent),
				"Total":   strconv.Itoa(day.Total),
				"Rate":    strconv.Itoa(day.Rate),
			})
		}
	case report.Grades != nil:
		body := report.Grades
		data.Summary = []export.SummaryLine{
			{Label: "Total Grades", Value: strconv.Itoa(body.TotalGrades)},
			{Label: "Average Score", Value: oneDecimal(body.AverageScore)},
			{Label: "Students", Value: strconv.Itoa(body.TotalStudents)},
			{Label: "Courses", Value: strconv.Itoa(body.TotalCourses)},
		}
		data.Headers = []string{"Grade", "Count", "Percentage"}
		for _, band := range body.Distribution {
			data.Rows = append(data.Rows, map[string]string{
				"Grade":      string(band.Letter),
				"Count":      strconv.Itoa(band.Count),
				"Percentage": oneDecimal(band.Percentage),
			})
		}
	case report.Students != nil:
		body := report.Students
		data.Summary = []export.SummaryLine{
			{Label: "Total Students", Value: strconv.Itoa(body.TotalStudents)},
			{Label: "Active Students", Value: strconv.Itoa(body.ActiveStudents)},
		}
		data.Headers = []string{"Class", "Total", "Active", "Inactive"}
		for _, class := range body.Classes {
			data.Rows = append(data.Rows, map[string]string{
				"Class":    class.ClassName,
				"Total":    strconv.Itoa(class.Total),
				"Active":   strconv.Itoa(class.Active),
				"Inactive": strconv.Itoa(class.Inactive),
			})
		}
	case report.Courses != nil:
		body := report.Courses
		data.Summary = []export.SummaryLine{
			{Label: "Total Courses", Value: strconv.Itoa(body.TotalCourses)},
		}
		data.Headers = []string{"Code", "Name", "Instructor", "Status", "Grades", "Average"}
		for _, course := range body.Courses {
			avg := "N/A"
			if course.AverageScore != nil {
				avg = oneDecimal(*course.AverageScore)
			}
			data.Rows = append(data.Rows, map[string]string{
				"Code":       course.Code,
				"Name":       course.Name,
				"Instructor": course.Instructor,
				"Status":     string(course.Status),
				"Grades":     strconv.Itoa(course.GradeCount),
				"Average":    avg,
			})
		}
	}
	return data
}

func oneDecimal(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}
