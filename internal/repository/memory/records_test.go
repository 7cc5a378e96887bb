package memory

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_UpsertAndRanges(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestStore(nil))

	for _, date := range []string{"2025-02-07", "2025-02-03", "2025-02-05", "2025-01-31"} {
		_, err := repo.Upsert(ctx, session.ProductivitySession{
			ID: session.ID("u1", date), UserID: "u1", Date: date, TotalMinutes: 100,
		})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, session.ProductivitySession{ID: session.ID("u2", "2025-02-05"), UserID: "u2", Date: "2025-02-05"})
	require.NoError(t, err)

	inRange, err := repo.ListByUserAndDateRange(ctx, "u1", "2025-02-01", "2025-02-07")
	require.NoError(t, err)
	require.Len(t, inRange, 3)
	assert.Equal(t, "2025-02-03", inRange[0].Date)
	assert.Equal(t, "2025-02-07", inRange[2].Date)

	byDate, err := repo.ListByDate(ctx, "2025-02-05")
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	first, err := repo.GetByID(ctx, session.ID("u1", "2025-02-05"))
	require.NoError(t, err)

	updated, err := repo.Upsert(ctx, session.ProductivitySession{
		ID: session.ID("u1", "2025-02-05"), UserID: "u1", Date: "2025-02-05", TotalMinutes: 420,
	})
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(first.UpdatedAt))

	all, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = repo.GetByID(ctx, "session-missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestTargetRepository_Month(t *testing.T) {
	ctx := context.Background()
	repo := NewTargetRepository(newTestStore(nil))

	execs := 50
	for _, date := range []string{"2025-02-01", "2025-02-28", "2025-03-01"} {
		_, err := repo.Upsert(ctx, target.ProductivityTarget{
			ID: target.ID("u1", date), UserID: "u1", TargetDate: date, TargetMinutes: 420, TargetExecutions: &execs,
		})
		require.NoError(t, err)
	}

	feb, err := repo.ListByUserAndMonth(ctx, "u1", "2025-02")
	require.NoError(t, err)
	assert.Len(t, feb, 2)

	byDate, err := repo.ListByDate(ctx, "2025-03-01")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, 50, *byDate[0].TargetExecutions)

	_, err = repo.GetByID(ctx, "target-missing")
	assert.ErrorIs(t, err, target.ErrTargetNotFound)
}

func TestTaskDefinitionRepository_ReplaceForOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskDefinitionRepository(newTestStore(nil))

	require.NoError(t, repo.ReplaceForOwner(ctx, "m1", []target.TaskTargetDefinition{
		{TaskName: "Sales Calls", AverageUnitMinutes: 6, TargetDaily: 70},
		{TaskName: "Emails", AverageUnitMinutes: 2, TargetDaily: 100},
	}))
	require.NoError(t, repo.ReplaceForOwner(ctx, "m2", []target.TaskTargetDefinition{
		{TaskName: "Sales Calls", AverageUnitMinutes: 10, TargetDaily: 40},
	}))

	d, err := repo.Get(ctx, "m1", "SALES CALLS")
	require.NoError(t, err)
	assert.Equal(t, 6.0, d.AverageUnitMinutes)

	// Full replace drops tasks missing from the new set
	require.NoError(t, repo.ReplaceForOwner(ctx, "m1", []target.TaskTargetDefinition{
		{TaskName: "Chats", AverageUnitMinutes: 3, TargetDaily: 90},
	}))
	_, err = repo.Get(ctx, "m1", "Sales Calls")
	assert.ErrorIs(t, err, target.ErrTaskDefinitionNotFound)

	m1, err := repo.ListByOwner(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, m1, 1)
	assert.Equal(t, "Chats", m1[0].TaskName)

	other, err := repo.Get(ctx, "m2", "sales calls")
	require.NoError(t, err)
	assert.Equal(t, 10.0, other.AverageUnitMinutes)
}

func TestExecutionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewExecutionRepository(newTestStore(nil))

	_, err := repo.Upsert(ctx, execution.AgentExecution{
		ID: execution.ID("u1", "2025-02-05"), UserID: "u1", AgentName: "Alice", ExecutionDate: "2025-02-05",
		TotalExecutions: 50, ExecutionsByType: map[string]int{"Sales Calls": 50},
	})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, execution.AgentExecution{
		ID: execution.ID("u1", "2025-02-05"), UserID: "u1", AgentName: "Alice", ExecutionDate: "2025-02-05",
		TotalExecutions: 20, ExecutionsByType: map[string]int{"Sales Calls": 20},
	})
	require.NoError(t, err)

	byName, err := repo.ListByAgentName(ctx, " alice ")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, 20, byName[0].TotalExecutions)

	byName[0].ExecutionsByType["Sales Calls"] = 999
	again, err := repo.GetByID(ctx, execution.ID("u1", "2025-02-05"))
	require.NoError(t, err)
	assert.Equal(t, 20, again.ExecutionsByType["Sales Calls"])

	month, err := repo.ListByUserAndMonth(ctx, "u1", "2025-02")
	require.NoError(t, err)
	assert.Len(t, month, 1)

	_, err = repo.GetByID(ctx, "exec-missing")
	assert.ErrorIs(t, err, execution.ErrExecutionNotFound)
}

func TestUploadRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewUploadRepository(newTestStore(nil))

	_, err := repo.RecordBulkExecutionUpload(ctx, upload.BulkExecutionUpload{ID: "exec-upload-1"})
	require.NoError(t, err)
	_, err = repo.RecordBulkExecutionUpload(ctx, upload.BulkExecutionUpload{ID: "exec-upload-2"})
	require.NoError(t, err)

	list, err := repo.ListBulkExecutionUploads(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "exec-upload-2", list[0].ID)
	assert.False(t, list[0].UploadDate.IsZero())
}
