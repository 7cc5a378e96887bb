package upload

import "time"

type Kind string

const (
	KindTaskDefinitions Kind = "task_definitions"
	KindTargets         Kind = "targets"
	KindAssignments     Kind = "assignments"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrorDetail is one rejected row of a bulk upload.
type ErrorDetail struct {
	Row        int    `json:"row"`
	Identifier string `json:"identifier"`
	Error      string `json:"error"`
}

// BulkUpload is the append-only audit row of a task definition, target or assignment import.
type BulkUpload struct {
	ID             string        `json:"id"`
	Kind           Kind          `json:"kind"`
	UploadedBy     string        `json:"uploaded_by"`
	UploadDate     time.Time     `json:"upload_date"`
	FileName       string        `json:"file_name"`
	RowsProcessed  int           `json:"rows_processed"`
	RowsSuccessful int           `json:"rows_successful"`
	RowsFailed     int           `json:"rows_failed"`
	ErrorDetails   []ErrorDetail `json:"error_details"`
	Status         Status        `json:"status"`
	ArchivePath    *string       `json:"archive_path,omitempty"`
}

type ExecutionErrorDetail struct {
	Row       int    `json:"row"`
	AgentName string `json:"agent_name"`
	Error     string `json:"error"`
}

// BulkExecutionUpload is the audit row of an execution import.
type BulkExecutionUpload struct {
	ID             string                 `json:"id"`
	UploadedBy     string                 `json:"uploaded_by"`
	UploadDate     time.Time              `json:"upload_date"`
	FileName       string                 `json:"file_name"`
	RowsProcessed  int                    `json:"rows_processed"`
	RowsSuccessful int                    `json:"rows_successful"`
	RowsFailed     int                    `json:"rows_failed"`
	RowsSkipped    int                    `json:"rows_skipped"`
	ErrorDetails   []ExecutionErrorDetail `json:"error_details"`
	Status         Status                 `json:"status"`
	ArchivePath    *string                `json:"archive_path,omitempty"`
}

// StatusFor returns failed when nothing in the file could be accepted.
func StatusFor(successful int, headerFailed bool) Status {
	if headerFailed || successful == 0 {
		return StatusFailed
	}
	return StatusCompleted
}
