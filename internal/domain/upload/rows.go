package upload

import "fmt"

// RowError reports one CSV row that violates its schema. Row 0 is a whole-file error.
type RowError struct {
	Row        int    `json:"row"`
	Identifier string `json:"identifier"`
	Error      string `json:"error"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d (%s): %s", e.Row, e.Identifier, e.Error)
}

// ImportResult is the outcome of parsing one file. RowsProcessed always equals
// RowsSuccessful + RowsFailed, and Success holds only when no row failed.
type ImportResult[T any] struct {
	Success        bool       `json:"success"`
	RowsProcessed  int        `json:"rows_processed"`
	RowsSuccessful int        `json:"rows_successful"`
	RowsFailed     int        `json:"rows_failed"`
	Rows           []T        `json:"rows"`
	Errors         []RowError `json:"errors"`
}

// HeaderFailed reports whether the file was rejected before any row was read.
func (r ImportResult[T]) HeaderFailed() bool {
	return r.RowsProcessed == 0 && len(r.Errors) > 0
}

func (r ImportResult[T]) ErrorDetails() []ErrorDetail {
	details := make([]ErrorDetail, 0, len(r.Errors))
	for _, e := range r.Errors {
		details = append(details, ErrorDetail{Row: e.Row, Identifier: e.Identifier, Error: e.Error})
	}
	return details
}

func (r ImportResult[T]) ExecutionErrorDetails() []ExecutionErrorDetail {
	details := make([]ExecutionErrorDetail, 0, len(r.Errors))
	for _, e := range r.Errors {
		details = append(details, ExecutionErrorDetail{Row: e.Row, AgentName: e.Identifier, Error: e.Error})
	}
	return details
}

type TaskDefinitionRow struct {
	Row                int     `json:"row"`
	TaskName           string  `json:"task_name"`
	AverageUnitMinutes float64 `json:"average_unit_execution_time_minutes"`
	TargetDaily        int     `json:"target_daily"`
}

type ExecutionRow struct {
	Row           int    `json:"row"`
	AgentName     string `json:"agent_name"`
	TaskName      string `json:"task_name"`
	NumberTreated int    `json:"number_treated"`
	ExecutionDate string `json:"execution_date"`
}

type AssignmentRow struct {
	Row               int     `json:"row"`
	ManagerEmail      string  `json:"manager_email"`
	ManagerName       string  `json:"manager_name"`
	ManagerPassword   string  `json:"-"`
	ManagerDepartment *string `json:"manager_department,omitempty"`
	AgentEmail        string  `json:"agent_email"`
	AgentName         string  `json:"agent_name"`
	AgentPassword     string  `json:"-"`
}

type TargetRow struct {
	Row              int    `json:"row"`
	Email            string `json:"email"`
	TargetDate       string `json:"target_date"`
	TargetMinutes    int    `json:"target_minutes"`
	TargetExecutions *int   `json:"target_executions,omitempty"`
}
