package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// ── export errors ──

var (
	ErrExportScopeRequired = errors.New("course and semester are required")
	ErrExportGenerateFail  = errors.New("failed to generate the export file")
)

// ExportService downloadable reports. Files are returned as buffers; the
// handler sets the response headers.
type ExportService interface {
	// ExportRequests writes the matching absence requests to an .xlsx workbook.
	ExportRequests(ctx context.Context, q *dto.RequestListQuery, caller Caller) (*bytes.Buffer, string, error)
	// ExportTimetableICS writes a timetable as an iCalendar feed anchored on the current week.
	ExportTimetableICS(ctx context.Context, q *dto.TimetableListRequest, caller Caller) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, clock Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, now: clock, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRequests
// ═══════════════════════════════════════════════════════════
//
// One row per class detail, so a request covering three classes spans three
// rows sharing the request columns. Faculty only export requests addressed
// to them.

var requestColumns = []string{"Submitted", "Student", "PRN", "Course", "Semester", "Faculty", "Subject", "Date", "Day", "Time", "Reason", "Status", "Processed"}

func (s *exportService) ExportRequests(ctx context.Context, q *dto.RequestListQuery, caller Caller) (*bytes.Buffer, string, error) {
	filter := queryFilter(q)
	if caller.Role == model.RoleFaculty {
		filter.FacultyID = caller.ID
	}
	records, err := s.repo.Request.List(ctx, filter)
	if err != nil {
		return nil, "", storeFailure(s.logger, "list requests", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Requests"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	for i, title := range requestColumns {
		f.SetCellValue(sheet, cell(colName(i), 1), title)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(requestColumns)-1), 1), headerStyle)
	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "G", 16)
	f.SetColWidth(sheet, "K", "K", 40)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	row := 2
	loc := s.now().Location()
	for _, r := range records {
		processed := ""
		if r.ProcessedAt != nil {
			processed = r.ProcessedAt.In(loc).Format("2006-01-02 15:04")
		}
		for _, d := range r.ClassDetails {
			values := []interface{}{
				r.SubmittedAt.In(loc).Format("2006-01-02 15:04"),
				r.StudentName,
				r.StudentPRN,
				r.Course,
				r.Semester,
				r.FacultyName,
				d.Subject,
				d.Date,
				d.Day.Name(),
				timeslot.FormatRangeForDisplay(d.Time),
				r.Reason,
				string(r.Status),
				processed,
			}
			if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
				s.logger.Error("write export row failed", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
			row++
		}
	}
	if row > 2 {
		f.AutoFilter(sheet, "A1:"+cell(colName(len(requestColumns)-1), row-1), nil)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("absence_requests_%s.xlsx", s.now().Format("20060102")), nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimetableICS
// ═══════════════════════════════════════════════════════════
//
// Weekly entries become events in the current week with a weekly RRULE; dated
// entries become single events. Students always get their own timetable and
// faculty default to the classes they teach.

func (s *exportService) ExportTimetableICS(ctx context.Context, q *dto.TimetableListRequest, caller Caller) (*bytes.Buffer, string, error) {
	filter := repository.TimetableFilter{Course: q.Course, Semester: q.Semester, FacultyID: q.FacultyID}
	switch caller.Role {
	case model.RoleStudent:
		student, err := lookupUser(ctx, s.repo, s.logger, caller.ID, ErrUserNotFound)
		if err != nil {
			return nil, "", err
		}
		filter = repository.TimetableFilter{Course: student.Course, Semester: student.Semester}
	case model.RoleFaculty:
		if filter.Course == "" && filter.FacultyID == "" {
			filter.FacultyID = caller.ID
		}
	}
	if filter.FacultyID == "" && (filter.Course == "" || filter.Semester == "") {
		return nil, "", ErrExportScopeRequired
	}

	entries, err := s.repo.Timetable.List(ctx, filter)
	if err != nil {
		return nil, "", storeFailure(s.logger, "list timetable", err)
	}

	now := s.now()
	week := timeslot.CurrentWeek(now)
	name := "Timetable"
	if filter.Course != "" {
		name = strings.TrimSpace(filter.Course + " " + filter.Semester)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//absence-desk//timetable//EN")
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(now.Location().String())

	for i := range entries {
		e := &entries[i]
		if !e.Day.Valid() {
			s.logger.Warn("skip entry with invalid day", zap.String("entry_id", e.ID), zap.Int("day", int(e.Day)))
			continue
		}
		date := week[e.Day].Date
		if e.Date != nil && *e.Date != "" {
			d, err := timeslot.ParseDate(*e.Date, now.Location())
			if err != nil {
				s.logger.Warn("skip entry with unreadable date", zap.String("entry_id", e.ID))
				continue
			}
			date = d
		}
		iv := timeslot.ToInterval(e.Time)

		event := cal.AddEvent(e.ID + "@absence-desk")
		event.SetDtStampTime(now)
		event.SetStartAt(timeslot.FromMinutes(iv.Start).On(date))
		event.SetEndAt(timeslot.FromMinutes(iv.End).On(date))
		event.SetSummary(e.Subject)
		event.SetDescription(fmt.Sprintf("%s %s, %s", e.Course, e.Semester, e.FacultyName))
		if e.Date == nil || *e.Date == "" {
			event.AddRrule("FREQ=WEEKLY")
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := strings.ReplaceAll(strings.ToLower(name), " ", "_") + ".ics"
	return buf, filename, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
