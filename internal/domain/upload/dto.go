package upload

// ========================================
// RECONCILIATION RESULTS
// ========================================

// TaskDefinitionImportResult is returned after replacing the uploader's task definitions.
type TaskDefinitionImportResult struct {
	ImportResult[TaskDefinitionRow]
	DefinitionsStored int    `json:"definitions_stored"`
	UploadID          string `json:"upload_id"`
}

// ExecutionImportResult is returned after reconciling an execution file.
type ExecutionImportResult struct {
	ImportResult[ExecutionRow]
	RowsSkipped        int          `json:"rows_skipped"`
	SkippedRows        []SkippedRow `json:"skipped_rows,omitempty"`
	ExecutionsUpserted int          `json:"executions_upserted"`
	SessionsUpserted   int          `json:"sessions_upserted"`
	TargetsUpserted    int          `json:"targets_upserted"`
	UploadID           string       `json:"upload_id"`
}

// SkippedRow is a parsed row that reconciliation could not apply.
type SkippedRow struct {
	Row        int    `json:"row"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

type TargetImportResult struct {
	ImportResult[TargetRow]
	TargetsUpserted int          `json:"targets_upserted"`
	RowsSkipped     int          `json:"rows_skipped"`
	SkippedRows     []SkippedRow `json:"skipped_rows,omitempty"`
	UploadID        string       `json:"upload_id"`
}

// UploadHistory lists both audit collections.
type UploadHistory struct {
	BulkUploads          []BulkUpload          `json:"bulk_uploads"`
	BulkExecutionUploads []BulkExecutionUpload `json:"bulk_execution_uploads"`
}
