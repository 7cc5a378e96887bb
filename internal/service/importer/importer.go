package importer

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/csvimport"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

// DefaultPassword is given to users created from an assignment file without one.
const DefaultPassword = "password123"

// Normalized column names per import kind
var (
	TaskDefinitionColumns = []string{"tasks", "average_unit_execution_time_in_minutes", "target_daily"}
	ExecutionColumns      = []string{"agent_name", "task_name", "number_treated"}
	AssignmentColumns     = []string{"manager_email", "agent_email", "agent_name"}
	TargetColumns         = []string{"email", "target_date"}
)

// Parser validates uploaded CSV files row by row. It never touches the store.
type Parser struct {
	now func() time.Time
}

func NewParser(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{now: now}
}

func (p *Parser) today() string {
	return p.now().UTC().Format(validator.DateLayout)
}

// rowError is a validation failure local to one row.
type rowError string

func (e rowError) Error() string { return string(e) }

// parse runs the shared pipeline: format check, header mapping, then convert per record.
// Only ErrUnsupportedFormat is returned as an error; everything else is reported in the result.
func parse[T any](fileName string, content []byte, required []string, identifierColumn string, convert func(rec csvimport.Record) (T, error)) (upload.ImportResult[T], error) {
	result := upload.ImportResult[T]{Rows: []T{}, Errors: []upload.RowError{}}

	if csvimport.IsBinarySpreadsheet(fileName, content) {
		return result, upload.ErrUnsupportedFormat
	}

	doc, err := csvimport.Parse(content, required)
	if err != nil {
		var missing *csvimport.MissingColumnsError
		switch {
		case errors.As(err, &missing):
			result.Errors = append(result.Errors, upload.RowError{Row: 1, Identifier: "header", Error: missing.Error()})
		case errors.Is(err, csvimport.ErrEmptyContent):
			result.Errors = append(result.Errors, upload.RowError{Row: 0, Identifier: "file", Error: upload.ErrEmptyFile.Error()})
		case errors.Is(err, csvimport.ErrInvalidUTF8):
			result.Errors = append(result.Errors, upload.RowError{Row: 0, Identifier: "file", Error: upload.ErrInvalidEncoding.Error()})
		default:
			result.Errors = append(result.Errors, upload.RowError{Row: 1, Identifier: "header", Error: err.Error()})
		}
		return result, nil
	}

	for _, rec := range doc.Records {
		result.RowsProcessed++

		identifier := rec.Get(identifierColumn)
		if identifier == "" {
			identifier = "N/A"
		}

		if rec.Err != nil {
			result.RowsFailed++
			result.Errors = append(result.Errors, upload.RowError{Row: rec.Line, Identifier: identifier, Error: rec.Err.Error()})
			continue
		}

		row, err := convert(rec)
		if err != nil {
			result.RowsFailed++
			result.Errors = append(result.Errors, upload.RowError{Row: rec.Line, Identifier: identifier, Error: err.Error()})
			continue
		}

		result.RowsSuccessful++
		result.Rows = append(result.Rows, row)
	}

	result.Success = result.RowsFailed == 0
	return result, nil
}

// ParseTaskDefinitions reads Tasks / Average Unit Execution Time in Minutes / Target Daily.
func (p *Parser) ParseTaskDefinitions(fileName string, content []byte) (upload.ImportResult[upload.TaskDefinitionRow], error) {
	return parse(fileName, content, TaskDefinitionColumns, "tasks", func(rec csvimport.Record) (upload.TaskDefinitionRow, error) {
		name := rec.Get("tasks")
		if name == "" {
			return upload.TaskDefinitionRow{}, rowError("Task name is required")
		}

		avg, err := strconv.ParseFloat(rec.Get("average_unit_execution_time_in_minutes"), 64)
		if err != nil || math.IsNaN(avg) || math.IsInf(avg, 0) || avg <= 0 {
			return upload.TaskDefinitionRow{}, rowError("Average unit execution time must be a positive number")
		}

		daily, ok := parseNonNegativeInt(rec.Get("target_daily"))
		if !ok {
			return upload.TaskDefinitionRow{}, rowError("Target daily must be a non-negative whole number")
		}

		return upload.TaskDefinitionRow{
			Row:                rec.Line,
			TaskName:           name,
			AverageUnitMinutes: avg,
			TargetDaily:        daily,
		}, nil
	})
}

// ParseExecutions reads Agent Name / Task Name / Number Treated with an optional execution_date.
func (p *Parser) ParseExecutions(fileName string, content []byte) (upload.ImportResult[upload.ExecutionRow], error) {
	today := p.today()
	return parse(fileName, content, ExecutionColumns, "agent_name", func(rec csvimport.Record) (upload.ExecutionRow, error) {
		agent := rec.Get("agent_name")
		if agent == "" {
			return upload.ExecutionRow{}, rowError("Agent name is required")
		}

		task := rec.Get("task_name")
		if task == "" {
			return upload.ExecutionRow{}, rowError("Task name is required")
		}

		count, ok := parseNonNegativeInt(rec.Get("number_treated"))
		if !ok {
			return upload.ExecutionRow{}, rowError("Invalid execution count (must be a non-negative whole number)")
		}

		date := rec.Get("execution_date")
		if date == "" {
			date = today
		} else if _, ok := validator.IsValidDate(date); !ok {
			return upload.ExecutionRow{}, rowError("Invalid date format (use YYYY-MM-DD)")
		}

		return upload.ExecutionRow{
			Row:           rec.Line,
			AgentName:     agent,
			TaskName:      task,
			NumberTreated: count,
			ExecutionDate: date,
		}, nil
	})
}

// ParseAssignments reads manager/agent pairs. Optional columns fall back to defaults.
func (p *Parser) ParseAssignments(fileName string, content []byte) (upload.ImportResult[upload.AssignmentRow], error) {
	return parse(fileName, content, AssignmentColumns, "agent_email", func(rec csvimport.Record) (upload.AssignmentRow, error) {
		managerEmail := validator.NormalizeEmail(rec.Get("manager_email"))
		if !validator.IsValidEmail(managerEmail) {
			return upload.AssignmentRow{}, rowError("Invalid manager email")
		}

		agentEmail := validator.NormalizeEmail(rec.Get("agent_email"))
		if !validator.IsValidEmail(agentEmail) {
			return upload.AssignmentRow{}, rowError("Invalid agent email")
		}
		if agentEmail == managerEmail {
			return upload.AssignmentRow{}, rowError("Agent and manager must be different users")
		}

		agentName := rec.Get("agent_name")
		if agentName == "" {
			return upload.AssignmentRow{}, rowError("Agent name is required")
		}

		managerName := rec.Get("manager_name")
		if managerName == "" {
			managerName = strings.SplitN(managerEmail, "@", 2)[0]
		}

		managerPassword, err := passwordOrDefault(rec.Get("manager_password"), "Manager")
		if err != nil {
			return upload.AssignmentRow{}, err
		}
		agentPassword, err := passwordOrDefault(rec.Get("agent_password"), "Agent")
		if err != nil {
			return upload.AssignmentRow{}, err
		}

		var department *string
		if d := rec.Get("manager_department"); d != "" {
			department = &d
		}

		return upload.AssignmentRow{
			Row:               rec.Line,
			ManagerEmail:      managerEmail,
			ManagerName:       managerName,
			ManagerPassword:   managerPassword,
			ManagerDepartment: department,
			AgentEmail:        agentEmail,
			AgentName:         agentName,
			AgentPassword:     agentPassword,
		}, nil
	})
}

// ParseTargets reads email / target_date with optional target_minutes and target_executions.
func (p *Parser) ParseTargets(fileName string, content []byte) (upload.ImportResult[upload.TargetRow], error) {
	return parse(fileName, content, TargetColumns, "email", func(rec csvimport.Record) (upload.TargetRow, error) {
		email := validator.NormalizeEmail(rec.Get("email"))
		date := rec.Get("target_date")
		if email == "" || date == "" {
			return upload.TargetRow{}, rowError("Missing email or date")
		}
		if !validator.IsValidEmail(email) {
			return upload.TargetRow{}, rowError("Invalid email format")
		}
		if _, ok := validator.IsValidDate(date); !ok {
			return upload.TargetRow{}, rowError("Invalid date format (use YYYY-MM-DD)")
		}

		minutes := target.DailyMinutes
		if raw := rec.Get("target_minutes"); raw != "" {
			m, err := strconv.Atoi(raw)
			if err != nil || m <= 0 {
				return upload.TargetRow{}, rowError("Invalid target minutes")
			}
			minutes = m
		}

		var executions *int
		if raw := rec.Get("target_executions"); raw != "" {
			n, ok := parseNonNegativeInt(raw)
			if !ok {
				return upload.TargetRow{}, rowError("Invalid target executions")
			}
			executions = &n
		}

		return upload.TargetRow{
			Row:              rec.Line,
			Email:            email,
			TargetDate:       date,
			TargetMinutes:    minutes,
			TargetExecutions: executions,
		}, nil
	})
}

func parseNonNegativeInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func passwordOrDefault(raw, label string) (string, error) {
	if raw == "" {
		return DefaultPassword, nil
	}
	if len([]rune(raw)) < user.MinPasswordLength {
		return "", rowError(label + " password must be at least 8 characters")
	}
	if len(raw) > user.MaxPasswordBytes {
		return "", rowError(label + " password must be at most 72 bytes")
	}
	return raw, nil
}
