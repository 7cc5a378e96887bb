package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// ImportTargets upserts one daily target per accepted row. The status reflects the
// minutes already tracked on that day.
func (s *UploadServiceImpl) ImportTargets(ctx context.Context, actor user.User, fileName string, content []byte) (upload.TargetImportResult, error) {
	if !canUpload(actor) {
		return upload.TargetImportResult{}, upload.ErrUploadForbidden
	}

	parsed, err := s.parser.ParseTargets(fileName, content)
	if err != nil {
		return upload.TargetImportResult{}, err
	}
	result := upload.TargetImportResult{ImportResult: parsed, SkippedRows: []upload.SkippedRow{}}

	for _, row := range parsed.Rows {
		u, err := s.Users.GetByEmail(ctx, row.Email)
		if err != nil {
			if !errors.Is(err, user.ErrUserNotFound) {
				return upload.TargetImportResult{}, fmt.Errorf("failed to get user by email: %w", err)
			}
			result.RowsSkipped++
			result.SkippedRows = append(result.SkippedRows, upload.SkippedRow{Row: row.Row, Identifier: row.Email, Reason: reasonUserNotFound})
			continue
		}
		if !user.CanView(actor, u) {
			result.RowsSkipped++
			result.SkippedRows = append(result.SkippedRows, upload.SkippedRow{Row: row.Row, Identifier: row.Email, Reason: reasonUserNotInTeam})
			continue
		}

		tracked := 0
		sess, err := s.Sessions.GetByID(ctx, session.ID(u.ID, row.TargetDate))
		switch {
		case err == nil:
			tracked = sess.TotalMinutes
		case !errors.Is(err, session.ErrSessionNotFound):
			return upload.TargetImportResult{}, fmt.Errorf("failed to get session: %w", err)
		}

		t := target.ProductivityTarget{
			ID:               target.ID(u.ID, row.TargetDate),
			UserID:           u.ID,
			TargetDate:       row.TargetDate,
			TargetMinutes:    row.TargetMinutes,
			TargetExecutions: row.TargetExecutions,
			Status:           target.StatusFor(tracked, row.TargetMinutes),
		}
		if existing, err := s.Targets.GetByID(ctx, t.ID); err == nil {
			t.Notes = existing.Notes
		}
		if _, err := s.Targets.Upsert(ctx, t); err != nil {
			return upload.TargetImportResult{}, fmt.Errorf("failed to upsert target: %w", err)
		}
		result.TargetsUpserted++
	}

	audit, err := s.Uploads.RecordBulkUpload(ctx, upload.BulkUpload{
		ID:             "upload-" + uuid.NewString(),
		Kind:           upload.KindTargets,
		UploadedBy:     actor.ID,
		UploadDate:     s.now().UTC(),
		FileName:       fileName,
		RowsProcessed:  parsed.RowsProcessed,
		RowsSuccessful: parsed.RowsSuccessful,
		RowsFailed:     parsed.RowsFailed,
		ErrorDetails:   parsed.ErrorDetails(),
		Status:         upload.StatusFor(parsed.RowsSuccessful, parsed.HeaderFailed()),
		ArchivePath:    s.archive(ctx, actor, string(upload.KindTargets), fileName, content),
	})
	if err != nil {
		return upload.TargetImportResult{}, fmt.Errorf("failed to record upload: %w", err)
	}
	result.UploadID = audit.ID

	s.logger.Info("Imported daily targets",
		"uploaded_by", actor.ID,
		"file_name", fileName,
		"rows_processed", parsed.RowsProcessed,
		"targets_upserted", result.TargetsUpserted,
		"rows_skipped", result.RowsSkipped,
	)
	return result, nil
}
