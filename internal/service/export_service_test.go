package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-records/internal/dto"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
	"github.com/noah-isme/sma-records/pkg/export"
)

type brokenRenderer struct{}

func (brokenRenderer) Render(export.Dataset) ([]byte, error) { return nil, errors.New("boom") }
func (brokenRenderer) ContentType() string { return "text/plain" }
func (brokenRenderer) Extension() string { return "txt" }

func TestExportServiceCSV(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)
	svc := NewExportService(NewReportService(store), nil)

	file, err := svc.Export(context.Background(), dto.ReportAttendance, dto.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "attendance-report-2024-05-01.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "Total Records,3\nReporting Days,2\n\nDate,Present,Absent,Total,Rate\n2024-05-01,1,1,2,50\n2024-04-30,1,0,1,100\n", string(file.Body))
}

func TestExportServicePDF(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)
	svc := NewExportService(NewReportService(store), nil)

	file, err := svc.Export(context.Background(), dto.ReportCourses, dto.ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "courses-report-2024-05-01.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestExportServiceRejectsUnknownInputs(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewExportService(NewReportService(store), nil)

	_, err := svc.Export(context.Background(), dto.ReportGrades, dto.ReportFormat("xlsx"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Export(context.Background(), dto.ReportKind("finance"), dto.ReportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServiceRenderFailure(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewExportService(NewReportService(store), nil)
	svc.renderers[dto.ReportFormatCSV] = brokenRenderer{}

	_, err := svc.Export(context.Background(), dto.ReportStudents, dto.ReportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestReportDatasetCourses(t *testing.T) {
	avg := 89.0
	data := ReportDataset(dto.Report{
		Title: "Courses Report",
		Courses: &dto.CoursesReport{
			TotalCourses: 2,
			Courses: []dto.CourseRow{
				{Code: "MATH", Name: "Mathematics", Status: "active", GradeCount: 2, AverageScore: &avg},
				{Code: "CHEM", Name: "Chemistry", Status: "inactive"},
			},
		},
	})

	assert.Equal(t, "Courses Report", data.Title)
	assert.Equal(t, []export.SummaryLine{{Label: "Total Courses", Value: "2"}}, data.Summary)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "89.0", data.Rows[0]["Average"])
	assert.Equal(t, "N/A", data.Rows[1]["Average"])
	assert.Equal(t, "0", data.Rows[1]["Grades"])
}
