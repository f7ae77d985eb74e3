package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ImportExportService handles admin data exchange: study data exports and
// bulk student imports.
type ImportExportService interface {
	// Import operations
	ImportStudentsFromFile(ctx context.Context, file multipart.File, filename string) (*ImportResult, error)
	ImportStudentsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportStudentsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)

	// Export operations
	ExportStudyLogsToCSV(ctx context.Context, studentID string) ([]byte, error)
	ExportGradesToCSV(ctx context.Context, studentID string) ([]byte, error)
	ExportStudentSummaryToExcel(ctx context.Context) ([]byte, error)
}

type importExportService struct {
	repo      repositories.Repository
	accounts  AccountService
	logger    *slog.Logger
	validator *utils.Validator
}

func NewImportExportService(repo repositories.Repository, accounts AccountService, logger *slog.Logger, validator *utils.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		accounts:  accounts,
		logger:    logger,
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	TotalRows    int              `json:"total_rows"`
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	Created      []*models.User   `json:"created,omitempty"`
}

func (s *importExportService) ImportStudentsFromFile(ctx context.Context, file multipart.File, filename string) (*ImportResult, error) {
	s.logger.Info("Starting student import", "filename", filename)

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return s.ImportStudentsFromCSV(ctx, file)
	case ".xlsx", ".xls":
		return s.ImportStudentsFromExcel(ctx, file)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportStudentsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return s.importStudentRows(ctx, records)
}

func (s *importExportService) ImportStudentsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importStudentRows(ctx, rows)
}

// importStudentRows expects a header row of name, grade, class, number.
func (s *importExportService) importStudentRows(ctx context.Context, records [][]string) (*ImportResult, error) {
	if len(records) < 2 {
		return nil, NewValidationError("file", "must have a header row and at least one data row", len(records))
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"name", "grade", "class", "number"} {
		if _, ok := headerMap[col]; !ok {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &ImportResult{TotalRows: len(records) - 1}

	for rowIndex, record := range records[1:] {
		rowNumber := rowIndex + 2

		req, err := parseStudentRow(record, headerMap)
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNumber, Message: err.Error()})
			continue
		}

		student, err := s.accounts.CreateStudent(ctx, *req)
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNumber, Message: err.Error()})
			continue
		}

		result.SuccessCount++
		result.Created = append(result.Created, student)
	}

	s.logger.Info("Student import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func parseStudentRow(record []string, headerMap map[string]int) (*CreateStudentRequest, error) {
	cell := func(col string) string {
		idx := headerMap[col]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := cell("name")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	grade, err := strconv.Atoi(cell("grade"))
	if err != nil {
		return nil, fmt.Errorf("grade must be a number")
	}
	class, err := strconv.Atoi(cell("class"))
	if err != nil {
		return nil, fmt.Errorf("class must be a number")
	}
	number, err := strconv.Atoi(cell("number"))
	if err != nil {
		return nil, fmt.Errorf("number must be a number")
	}

	return &CreateStudentRequest{
		Name:   name,
		Grade:  grade,
		Class:  class,
		Number: number,
	}, nil
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportStudyLogsToCSV(ctx context.Context, studentID string) ([]byte, error) {
	logs, err := s.repo.StudyLog().GetByStudent(ctx, studentID, repositories.StudyLogFilters{SortOrder: "asc"})
	if err != nil {
		return nil, fmt.Errorf("failed to get study logs: %w", err)
	}

	subjectNames, err := s.subjectNames(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "subject", "duration_minutes", "content", "logged_at"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, log := range logs {
		record := []string{
			strconv.FormatUint(uint64(log.ID), 10),
			subjectNames[log.SubjectID],
			strconv.Itoa(log.DurationMinutes),
			log.Content,
			log.LoggedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *importExportService) ExportGradesToCSV(ctx context.Context, studentID string) ([]byte, error) {
	grades, err := s.repo.Grade().GetByStudent(ctx, studentID, repositories.GradeFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to get grades: %w", err)
	}

	subjectNames, err := s.subjectNames(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "subject", "test_name", "score", "max_score", "percent", "taken_at"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, grade := range grades {
		record := []string{
			strconv.FormatUint(uint64(grade.ID), 10),
			subjectNames[grade.SubjectID],
			grade.TestName,
			strconv.FormatFloat(grade.Score, 'f', -1, 64),
			strconv.FormatFloat(grade.MaxScore, 'f', -1, 64),
			strconv.Itoa(grade.Percent()),
			grade.TakenAt.UTC().Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportStudentSummaryToExcel builds one workbook with a row per student:
// identity, total study minutes and assignment completion.
func (s *importExportService) ExportStudentSummaryToExcel(ctx context.Context) ([]byte, error) {
	students, err := s.repo.User().GetStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Students"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Name", "Grade", "Class", "Number", "Total Study Minutes", "Log Count", "Assignments Completed", "Assignments Total"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	since := time.Time{} // all-time totals
	for row, student := range students {
		totals, err := s.repo.StudyLog().GetStudyTotals(ctx, student.ID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to get study totals for %s: %w", student.ID, err)
		}
		counts, err := s.repo.Assignment().GetCounts(ctx, student.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get assignment counts for %s: %w", student.ID, err)
		}

		values := []interface{}{
			student.ID,
			student.Name,
			derefInt(student.Grade),
			derefInt(student.Class),
			derefInt(student.Number),
			totals.TotalMinutes,
			totals.LogCount,
			counts.Completed + counts.Late,
			counts.Total,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *importExportService) subjectNames(ctx context.Context) (map[uint]string, error) {
	subjects, err := s.repo.Subject().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	names := make(map[uint]string, len(subjects))
	for _, subject := range subjects {
		names[subject.ID] = subject.Name
	}
	return names, nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
