package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// ── import errors ──

var (
	ErrImportNoData      = errors.New("the file contains no timetable rows")
	ErrImportTooManyRows = errors.New("the file has too many rows, split it and import again")
	ErrImportBadHeader   = errors.New("header must contain course, semester, day, time, subject, facultyId, facultyName")
	ErrImportUnreadable  = errors.New("the file could not be read")
)

const maxImportRows = 2000

// importColumns are the required header columns, matched case-insensitively.
var importColumns = []string{"course", "semester", "day", "time", "subject", "facultyid", "facultyname"}

// importRow is one data row with its 1-based line number in the file.
type importRow struct {
	Line  int
	Cells []string
}

// importTable is a parsed header plus data rows.
type importTable struct {
	Header map[string]int
	Width  int
	Rows   []importRow
	// PadShort fills missing trailing cells instead of skipping the row.
	// Spreadsheets drop empty trailing cells.
	PadShort bool
}

func parseImportHeader(cells []string) (map[string]int, error) {
	idx := make(map[string]int, len(cells))
	for i, c := range cells {
		idx[strings.ToLower(strings.TrimSpace(c))] = i
	}
	for _, col := range importColumns {
		if _, ok := idx[col]; !ok {
			return nil, ErrImportBadHeader
		}
	}
	return idx, nil
}

// splitCSV reads comma-separated lines. Quotes are not interpreted.
func splitCSV(data []byte) (*importTable, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	table := &importTable{}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		if table.Header == nil {
			header, err := parseImportHeader(cells)
			if err != nil {
				return nil, err
			}
			table.Header, table.Width = header, len(cells)
			continue
		}
		table.Rows = append(table.Rows, importRow{Line: i + 1, Cells: cells})
	}
	if table.Header == nil {
		return nil, ErrImportNoData
	}
	return table, nil
}

// readXLSX reads the first sheet of a workbook.
func readXLSX(data []byte) (*importTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportUnreadable, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportUnreadable, err)
	}

	table := &importTable{PadShort: true}
	for i, cells := range rows {
		if strings.TrimSpace(strings.Join(cells, "")) == "" {
			continue
		}
		if table.Header == nil {
			header, err := parseImportHeader(cells)
			if err != nil {
				return nil, err
			}
			table.Header, table.Width = header, len(cells)
			continue
		}
		table.Rows = append(table.Rows, importRow{Line: i + 1, Cells: cells})
	}
	if table.Header == nil {
		return nil, ErrImportNoData
	}
	return table, nil
}

func (t *importTable) cell(row []string, col string) string {
	return strings.TrimSpace(row[t.Header[col]])
}

// inputs turns rows into entry inputs. Rows with the wrong column count or no
// course, semester or subject are counted as skipped; an unreadable day is
// reported as rejected.
func (t *importTable) inputs(result *dto.ImportResult) []lineInput {
	var out []lineInput
	for _, row := range t.Rows {
		cells := row.Cells
		if len(cells) != t.Width {
			if !t.PadShort || len(cells) > t.Width {
				result.Skipped++
				continue
			}
			cells = append(cells, make([]string, t.Width-len(cells))...)
		}
		in := entryInput{
			Course:      t.cell(cells, "course"),
			Semester:    t.cell(cells, "semester"),
			Time:        t.cell(cells, "time"),
			Subject:     t.cell(cells, "subject"),
			FacultyID:   t.cell(cells, "facultyid"),
			FacultyName: t.cell(cells, "facultyname"),
		}
		if in.Course == "" || in.Semester == "" || in.Subject == "" {
			result.Skipped++
			continue
		}
		day, err := timeslot.ParseWeekDay(t.cell(cells, "day"))
		if err != nil {
			result.Rejected = append(result.Rejected, dto.ImportRowError{Line: row.Line, Reason: err.Error()})
			continue
		}
		in.Day = day
		out = append(out, lineInput{Line: row.Line, In: in})
	}
	return out
}

type lineInput struct {
	Line int
	In   entryInput
}

// ────────────────────── ImportCSV / ImportXLSX / ImportICS ──────────────────────

func (s *timetableService) ImportCSV(ctx context.Context, data []byte) (*dto.ImportResult, error) {
	table, err := splitCSV(data)
	if err != nil {
		return nil, err
	}
	return s.importTable(ctx, table)
}

func (s *timetableService) ImportXLSX(ctx context.Context, data []byte) (*dto.ImportResult, error) {
	table, err := readXLSX(data)
	if err != nil {
		return nil, err
	}
	return s.importTable(ctx, table)
}

func (s *timetableService) importTable(ctx context.Context, table *importTable) (*dto.ImportResult, error) {
	if len(table.Rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(table.Rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	result := &dto.ImportResult{}
	return result, s.upsertAll(ctx, table.inputs(result), result)
}

func (s *timetableService) ImportICS(ctx context.Context, data []byte, req *dto.ImportICSRequest, caller Caller) (*dto.ImportResult, error) {
	classes, err := ParseICS(bytes.NewReader(data), s.now().Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportUnreadable, err)
	}
	if len(classes) == 0 {
		return nil, ErrImportNoData
	}
	if len(classes) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	facultyID, facultyName := req.FacultyID, req.FacultyName
	if !caller.IsAdmin() {
		facultyID = caller.ID
	}
	if facultyID != "" {
		faculty, err := lookupUser(ctx, s.repo, s.logger, facultyID, ErrFacultyNotFound)
		if err != nil {
			return nil, err
		}
		if faculty.Role != model.RoleFaculty {
			return nil, ErrFacultyNotFound
		}
		if facultyName == "" || !caller.IsAdmin() {
			facultyName = faculty.Name
		}
	}

	inputs := make([]lineInput, 0, len(classes))
	for i, c := range classes {
		inputs = append(inputs, lineInput{Line: i + 1, In: entryInput{
			Course:      req.Course,
			Semester:    req.Semester,
			Day:         c.Day,
			Date:        c.Date,
			Time:        c.Time,
			Subject:     c.Subject,
			FacultyID:   facultyID,
			FacultyName: facultyName,
		}})
	}

	result := &dto.ImportResult{}
	return result, s.upsertAll(ctx, inputs, result)
}

// upsertAll validates and upserts inputs in order. A row that fails
// validation or overlaps another entry of its scope and day is reported and
// not written; a row with the same day and time as a stored entry replaces it.
func (s *timetableService) upsertAll(ctx context.Context, inputs []lineInput, result *dto.ImportResult) error {
	scopes := make(map[model.Scope][]model.TimetableEntry)
	now := s.now().UTC()

	for _, li := range inputs {
		entry, err := buildEntry(li.In)
		if err != nil {
			result.Rejected = append(result.Rejected, dto.ImportRowError{Line: li.Line, Reason: err.Error()})
			continue
		}

		scope := entry.Scope()
		existing, ok := scopes[scope]
		if !ok {
			existing, err = s.repo.Timetable.List(ctx, repository.TimetableFilter{Course: scope.Course, Semester: scope.Semester})
			if err != nil {
				return storeFailure(s.logger, "list timetable", err)
			}
		}

		// The stored entry with the same key is the one being replaced.
		sameKey := -1
		for i := range existing {
			if existing[i].Key() == entry.Key() {
				sameKey = i
				entry.ID = existing[i].ID
				entry.Timestamps = existing[i].Timestamps
				break
			}
		}
		if err := timeslot.FindConflict(entry.Day, entry.Time, scheduledOf(existing), entry.ID); err != nil {
			result.Rejected = append(result.Rejected, dto.ImportRowError{Line: li.Line, Reason: err.Error()})
			scopes[scope] = existing
			continue
		}

		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.Touch(now)
		created, err := s.repo.Timetable.Upsert(ctx, entry)
		if err != nil {
			return storeFailure(s.logger, "upsert timetable entry", err, zap.Int("line", li.Line))
		}
		if created {
			result.Imported++
		} else {
			result.Updated++
		}

		if sameKey >= 0 {
			existing[sameKey] = *entry
		} else {
			existing = append(existing, *entry)
		}
		scopes[scope] = existing
	}

	s.logger.Info("timetable import finished",
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("rejected", len(result.Rejected)),
	)
	return nil
}
