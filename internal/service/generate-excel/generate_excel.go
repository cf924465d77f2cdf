package generate_excel

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/storage"
)

const (
	officerSheet = "Officer Log"
	jobsSheet    = "Jobs"
)

type GenerateExcelStorage interface {
	GetJobsByView(ctx context.Context, plant string, ref time.Time) jobs.Views
}

type OfficerLog interface {
	GetOfficerEntriesByView(ctx context.Context, view jobs.View, plant string, ref time.Time) ([]storage.OfficerEntry, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
	officer OfficerLog
}

func NewGenerateService(storage GenerateExcelStorage, officer OfficerLog) *GenerateExcelService {
	return &GenerateExcelService{storage: storage, officer: officer}
}

// ReportFilter selects what goes into a handover workbook.
type ReportFilter struct {
	Plant string
	View  jobs.View
	Date  time.Time
}

// GenerateOfficerReport builds the shift handover workbook: the officer log
// for the view on the first sheet and the view's jobs on the second.
func (g *GenerateExcelService) GenerateOfficerReport(ctx context.Context, filter ReportFilter) ([]byte, error) {
	const op = "service.generate_excel.GenerateOfficerReport"

	entries, err := g.officer.GetOfficerEntriesByView(ctx, filter.View, filter.Plant, filter.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch officer entries: %w", op, err)
	}
	list := g.storage.GetJobsByView(ctx, filter.Plant, filter.Date).Get(filter.View)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", officerSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(jobsSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// шапка: жирный шрифт, серая заливка
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	officerHeaders := []string{"Date", "Shift", "Time", "Tag No", "Job Type", "Description", "Officer", "Status", "Remarks"}
	writeHeader(f, officerSheet, officerHeaders, headerStyle)

	for i, e := range entries {
		row := i + 2
		f.SetCellValue(officerSheet, cellName(1, row), e.Date)
		f.SetCellValue(officerSheet, cellName(2, row), e.Shift)
		f.SetCellValue(officerSheet, cellName(3, row), e.Time)
		f.SetCellValue(officerSheet, cellName(4, row), e.TagNo)
		f.SetCellValue(officerSheet, cellName(5, row), e.JobType)
		f.SetCellValue(officerSheet, cellName(6, row), e.Description)
		f.SetCellValue(officerSheet, cellName(7, row), e.Officer)
		f.SetCellValue(officerSheet, cellName(8, row), e.Status)
		f.SetCellValue(officerSheet, cellName(9, row), e.Remarks)
	}

	jobHeaders := []string{"ID", "Target Date", "Area", "Loop", "Tag", "Instrument", "Job Type", "Technician",
		"Engineer", "Shift", "Status", "Pending", "Emergency", "Extra Duty Hours", "Source", "Remarks"}
	writeHeader(f, jobsSheet, jobHeaders, headerStyle)

	for i, j := range list {
		row := i + 2
		f.SetCellValue(jobsSheet, cellName(1, row), j.ID)
		f.SetCellValue(jobsSheet, cellName(2, row), j.TargetDate)
		f.SetCellValue(jobsSheet, cellName(3, row), j.Area)
		f.SetCellValue(jobsSheet, cellName(4, row), j.Loop)
		f.SetCellValue(jobsSheet, cellName(5, row), j.Tag)
		f.SetCellValue(jobsSheet, cellName(6, row), j.TypeOfInstrument)
		f.SetCellValue(jobsSheet, cellName(7, row), j.JobType)
		f.SetCellValue(jobsSheet, cellName(8, row), j.Technician)
		f.SetCellValue(jobsSheet, cellName(9, row), j.Engineer)
		f.SetCellValue(jobsSheet, cellName(10, row), j.Shift)
		f.SetCellValue(jobsSheet, cellName(11, row), j.Status)
		f.SetCellValue(jobsSheet, cellName(12, row), yesNo(j.PendingWrite))
		f.SetCellValue(jobsSheet, cellName(13, row), yesNo(j.Emergency))
		f.SetCellValue(jobsSheet, cellName(14, row), j.ExtraDutyHours)
		f.SetCellValue(jobsSheet, cellName(15, row), j.Source)
		f.SetCellValue(jobsSheet, cellName(16, row), len(j.Remarks))
	}

	for _, sheet := range []string{officerSheet, jobsSheet} {
		f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
		})
	}
	f.SetColWidth(officerSheet, "A", "E", 14)
	f.SetColWidth(officerSheet, "F", "F", 40)
	f.SetColWidth(officerSheet, "G", "I", 20)
	f.SetColWidth(jobsSheet, "A", "P", 15)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
