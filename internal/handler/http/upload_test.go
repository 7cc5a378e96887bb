package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taskDefinitionsCSV = "Tasks,Average Unit Execution Time in Minutes,Target Daily\n" +
	"Sales Calls,6,70\n" +
	"Email Follow-up,3,\n"

const executionsCSV = "Agent Name,Task Name,Number Treated\n" +
	"Alice,Sales Calls,50\n" +
	"Ghost,Sales Calls,10\n"

func TestUploadHandler_TaskDefinitionsThenExecutions(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t, "manager@company.com")

	w := srv.upload(t, "/api/v1/uploads/task-definitions", token, "tasks.csv", taskDefinitionsCSV)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var defs upload.TaskDefinitionImportResult
	decodeData(t, w, &defs)
	assert.Equal(t, 2, defs.RowsProcessed)
	assert.Equal(t, 1, defs.RowsSuccessful)
	assert.Equal(t, 1, defs.RowsFailed)
	assert.Equal(t, 1, defs.DefinitionsStored)
	require.Len(t, defs.Errors, 1)
	assert.Equal(t, 3, defs.Errors[0].Row)

	w = srv.do(t, http.MethodGet, "/api/v1/task-definitions", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stored []target.TaskTargetDefinition
	decodeData(t, w, &stored)
	require.Len(t, stored, 1)
	assert.Equal(t, "Sales Calls", stored[0].TaskName)

	w = srv.upload(t, "/api/v1/uploads/executions", token, "executions.csv", executionsCSV)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var execs upload.ExecutionImportResult
	decodeData(t, w, &execs)
	assert.Equal(t, 2, execs.RowsProcessed)
	assert.Equal(t, 1, execs.ExecutionsUpserted)
	assert.Equal(t, 1, execs.RowsSkipped)

	w = srv.do(t, http.MethodGet, "/api/v1/uploads", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var history upload.UploadHistory
	decodeData(t, w, &history)
	assert.Len(t, history.BulkUploads, 1)
	assert.Len(t, history.BulkExecutionUploads, 1)
}

func TestUploadHandler_Targets(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t, "manager@company.com")

	content := "email,target_date,target_minutes\n" +
		"alice@company.com," + fixtures.TodayDate + ",400\n" +
		"alice@company.com,not-a-date,400\n"

	w := srv.upload(t, "/api/v1/uploads/targets", token, "targets.csv", content)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result upload.TargetImportResult
	decodeData(t, w, &result)
	assert.Equal(t, 1, result.TargetsUpserted)
	assert.Equal(t, 1, result.RowsFailed)
}

func TestUploadHandler_Rejections(t *testing.T) {
	srv := newTestServer(t, true)
	manager := srv.login(t, "manager@company.com")
	agent := srv.login(t, "alice@company.com")

	t.Run("agent", func(t *testing.T) {
		w := srv.upload(t, "/api/v1/uploads/task-definitions", agent, "tasks.csv", taskDefinitionsCSV)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("spreadsheet", func(t *testing.T) {
		w := srv.upload(t, "/api/v1/uploads/task-definitions", manager, "tasks.xlsx", "PK\x03\x04binary")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		big := "Tasks,Average Unit Execution Time in Minutes,Target Daily\n" + strings.Repeat("x", handlerTestMaxUpload+1)
		w := srv.upload(t, "/api/v1/uploads/task-definitions", manager, "tasks.csv", big)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/uploads/executions", manager, strings.NewReader("{}"), "application/json")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
