package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	reasonAgentNotFound   = "Agent not found in your team"
	reasonTaskNotDefined  = "No task target definition for this task"
	reasonUserNotFound    = "User not found"
	reasonUserNotInTeam   = "User is not in your team"
	executionsArchiveKind = "executions"
)

// dailyWork accumulates one agent's accepted rows for one date.
type dailyWork struct {
	agent   user.User
	date    string
	total   int
	byType  map[string]int
	tasks   []string
	minutes decimal.Decimal
}

func (w *dailyWork) add(def target.TaskTargetDefinition, count int) {
	if _, seen := w.byType[def.TaskName]; !seen {
		w.tasks = append(w.tasks, def.TaskName)
	}
	w.byType[def.TaskName] += count
	w.total += count
	w.minutes = w.minutes.Add(decimal.NewFromFloat(def.AverageUnitMinutes).Mul(decimal.NewFromInt(int64(count))))
}

// cappedMinutes rounds half-up and caps at the daily ceiling.
func (w *dailyWork) cappedMinutes() int {
	minutes := int(w.minutes.Round(0).IntPart())
	if minutes > target.DailyMinutes {
		return target.DailyMinutes
	}
	return minutes
}

// ImportExecutions matches rows to the actor's agents by name, aggregates them per
// (agent, date) and upserts the execution, session and target of each pair.
func (s *UploadServiceImpl) ImportExecutions(ctx context.Context, actor user.User, fileName string, content []byte) (upload.ExecutionImportResult, error) {
	if !canUpload(actor) {
		return upload.ExecutionImportResult{}, upload.ErrUploadForbidden
	}

	parsed, err := s.parser.ParseExecutions(fileName, content)
	if err != nil {
		return upload.ExecutionImportResult{}, err
	}
	result := upload.ExecutionImportResult{ImportResult: parsed, SkippedRows: []upload.SkippedRow{}}

	agents, err := s.eligibleAgents(ctx, actor)
	if err != nil {
		return upload.ExecutionImportResult{}, fmt.Errorf("failed to list eligible agents: %w", err)
	}
	byName := make(map[string]user.User, len(agents))
	for _, a := range agents {
		if _, dup := byName[nameKey(a.Name)]; !dup {
			byName[nameKey(a.Name)] = a
		}
	}

	defs, err := s.Definitions.ListByOwner(ctx, actor.ID)
	if err != nil {
		return upload.ExecutionImportResult{}, fmt.Errorf("failed to list task definitions: %w", err)
	}
	defByTask := make(map[string]target.TaskTargetDefinition, len(defs))
	for _, d := range defs {
		defByTask[d.Key()] = d
	}

	work := make(map[string]*dailyWork)
	var order []string
	for _, row := range parsed.Rows {
		agent, ok := byName[nameKey(row.AgentName)]
		if !ok {
			result.RowsSkipped++
			result.SkippedRows = append(result.SkippedRows, upload.SkippedRow{Row: row.Row, Identifier: row.AgentName, Reason: reasonAgentNotFound})
			continue
		}
		def, ok := defByTask[target.TaskKey(row.TaskName)]
		if !ok {
			result.RowsSkipped++
			result.SkippedRows = append(result.SkippedRows, upload.SkippedRow{Row: row.Row, Identifier: row.TaskName, Reason: reasonTaskNotDefined})
			continue
		}

		key := agent.ID + "|" + row.ExecutionDate
		w, ok := work[key]
		if !ok {
			w = &dailyWork{agent: agent, date: row.ExecutionDate, byType: make(map[string]int)}
			work[key] = w
			order = append(order, key)
		}
		w.add(def, row.NumberTreated)
	}

	for _, key := range order {
		if err := s.applyDailyWork(ctx, work[key]); err != nil {
			return upload.ExecutionImportResult{}, err
		}
		result.ExecutionsUpserted++
		result.SessionsUpserted++
		result.TargetsUpserted++
	}

	audit, err := s.Uploads.RecordBulkExecutionUpload(ctx, upload.BulkExecutionUpload{
		ID:             "exec-upload-" + uuid.NewString(),
		UploadedBy:     actor.ID,
		UploadDate:     s.now().UTC(),
		FileName:       fileName,
		RowsProcessed:  parsed.RowsProcessed,
		RowsSuccessful: parsed.RowsSuccessful,
		RowsFailed:     parsed.RowsFailed,
		RowsSkipped:    result.RowsSkipped,
		ErrorDetails:   parsed.ExecutionErrorDetails(),
		Status:         upload.StatusFor(parsed.RowsSuccessful, parsed.HeaderFailed()),
		ArchivePath:    s.archive(ctx, actor, executionsArchiveKind, fileName, content),
	})
	if err != nil {
		return upload.ExecutionImportResult{}, fmt.Errorf("failed to record execution upload: %w", err)
	}
	result.UploadID = audit.ID

	s.logger.Info("Reconciled execution upload",
		"uploaded_by", actor.ID,
		"file_name", fileName,
		"rows_processed", parsed.RowsProcessed,
		"rows_failed", parsed.RowsFailed,
		"rows_skipped", result.RowsSkipped,
		"pairs_upserted", result.ExecutionsUpserted,
	)
	return result, nil
}

func (s *UploadServiceImpl) applyDailyWork(ctx context.Context, w *dailyWork) error {
	if _, err := s.Executions.Upsert(ctx, execution.AgentExecution{
		ID:               execution.ID(w.agent.ID, w.date),
		UserID:           w.agent.ID,
		AgentName:        w.agent.Name,
		ExecutionDate:    w.date,
		TotalExecutions:  w.total,
		ExecutionsByType: w.byType,
	}); err != nil {
		return fmt.Errorf("failed to upsert execution: %w", err)
	}

	minutes := w.cappedMinutes()
	start, _ := time.Parse("2006-01-02", w.date)
	end := start.Add(time.Duration(minutes) * time.Minute)
	if _, err := s.Sessions.Upsert(ctx, session.ProductivitySession{
		ID:            session.ID(w.agent.ID, w.date),
		UserID:        w.agent.ID,
		Date:          w.date,
		StartTime:     start,
		EndTime:       &end,
		TotalMinutes:  minutes,
		ActiveMinutes: minutes,
		IdleMinutes:   0,
		IdleEvents:    []session.IdleEvent{},
		Status:        session.StatusCompleted,
		Activities:    append([]string{}, w.tasks...),
	}); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	status := target.StatusMissed
	if minutes >= target.DailyMinutes {
		status = target.StatusAchieved
	}
	executions := w.total
	if _, err := s.Targets.Upsert(ctx, target.ProductivityTarget{
		ID:               target.ID(w.agent.ID, w.date),
		UserID:           w.agent.ID,
		TargetDate:       w.date,
		TargetMinutes:    target.DailyMinutes,
		TargetExecutions: &executions,
		Status:           status,
	}); err != nil {
		return fmt.Errorf("failed to upsert target: %w", err)
	}
	return nil
}
