package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const (
	reasonManagerRole = "Manager email belongs to a user who is not a manager"
	reasonAgentRole   = "Agent email belongs to a user who is not an agent"
)

// ImportAssignments implements user.UserService. Missing managers and agents are
// created from the row; rows whose users exist with the wrong role are skipped.
func (s *UserServiceImpl) ImportAssignments(ctx context.Context, actor user.User, fileName string, content []byte) (user.ImportAssignmentsResult, error) {
	if err := requireAdmin(actor); err != nil {
		return user.ImportAssignmentsResult{}, err
	}

	parsed, err := s.parser.ParseAssignments(fileName, content)
	if err != nil {
		return user.ImportAssignmentsResult{}, err
	}

	result := user.ImportAssignmentsResult{RowsProcessed: parsed.RowsProcessed}
	details := parsed.ErrorDetails()
	for _, e := range parsed.Errors {
		result.SkippedRows++
		result.Skipped = append(result.Skipped, user.SkipEntry{Row: e.Row, Identifier: e.Identifier, Reason: e.Error})
	}

	for _, row := range parsed.Rows {
		manager, created, err := s.findOrCreate(ctx, row.ManagerEmail, user.CreateUserRequest{
			Email:      row.ManagerEmail,
			Name:       row.ManagerName,
			Password:   row.ManagerPassword,
			Role:       string(user.RoleManager),
			Department: row.ManagerDepartment,
		})
		if reason, ok := rowRejection(err); ok {
			skipRow(&result, &details, row.Row, row.ManagerEmail, reason)
			continue
		}
		if err != nil {
			return user.ImportAssignmentsResult{}, err
		}
		if !manager.IsManager() {
			skipRow(&result, &details, row.Row, row.ManagerEmail, reasonManagerRole)
			continue
		}
		if created {
			result.CreatedManagers++
		}

		agent, created, err := s.findOrCreate(ctx, row.AgentEmail, user.CreateUserRequest{
			Email:      row.AgentEmail,
			Name:       row.AgentName,
			Password:   row.AgentPassword,
			Role:       string(user.RoleAgent),
			Department: row.ManagerDepartment,
			ManagerID:  &manager.ID,
		})
		if reason, ok := rowRejection(err); ok {
			skipRow(&result, &details, row.Row, row.AgentEmail, reason)
			continue
		}
		if err != nil {
			return user.ImportAssignmentsResult{}, err
		}
		if !agent.IsAgent() {
			skipRow(&result, &details, row.Row, row.AgentEmail, reasonAgentRole)
			continue
		}
		if created {
			result.CreatedAgents++
		} else if !agent.ReportsTo(manager.ID) {
			if err := s.assign(ctx, agent.ID, manager.ID); err != nil {
				return user.ImportAssignmentsResult{}, err
			}
		}
		result.AssignedAgents++
	}

	audit, err := s.UploadRepository.RecordBulkUpload(ctx, upload.BulkUpload{
		ID:             "upload-" + uuid.NewString(),
		Kind:           upload.KindAssignments,
		UploadedBy:     actor.ID,
		UploadDate:     s.now().UTC(),
		FileName:       fileName,
		RowsProcessed:  parsed.RowsProcessed,
		RowsSuccessful: result.AssignedAgents,
		RowsFailed:     parsed.RowsProcessed - result.AssignedAgents,
		ErrorDetails:   details,
		Status:         upload.StatusFor(result.AssignedAgents, parsed.HeaderFailed()),
	})
	if err != nil {
		return user.ImportAssignmentsResult{}, fmt.Errorf("failed to record bulk upload: %w", err)
	}
	result.UploadID = audit.ID

	s.logger.Info("Imported assignments",
		"file_name", fileName,
		"created_managers", result.CreatedManagers,
		"created_agents", result.CreatedAgents,
		"assigned_agents", result.AssignedAgents,
		"skipped_rows", result.SkippedRows,
	)
	return result, nil
}

func skipRow(result *user.ImportAssignmentsResult, details *[]upload.ErrorDetail, row int, identifier, reason string) {
	result.SkippedRows++
	result.Skipped = append(result.Skipped, user.SkipEntry{Row: row, Identifier: identifier, Reason: reason})
	*details = append(*details, upload.ErrorDetail{Row: row, Identifier: identifier, Error: reason})
}

// rowRejection reports whether err only concerns the row's own data, so the row is
// skipped and the rest of the file still applies.
func rowRejection(err error) (string, bool) {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return "", false
	case errors.As(err, &validationErrs):
		return validationErrs.Error(), true
	case errors.Is(err, user.ErrUserEmailExists), errors.Is(err, user.ErrManagerNotFound), errors.Is(err, user.ErrNotAManager):
		return err.Error(), true
	default:
		return "", false
	}
}

// findOrCreate returns the user registered under email, creating it from req when absent.
func (s *UserServiceImpl) findOrCreate(ctx context.Context, email string, req user.CreateUserRequest) (user.User, bool, error) {
	existing, err := s.UserRepository.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, false, fmt.Errorf("failed to get user by email: %w", err)
	}

	created, err := s.UserRepository.Create(ctx, req)
	if err != nil {
		return user.User{}, false, fmt.Errorf("failed to create %s %s: %w", req.Role, email, err)
	}
	return created, true, nil
}
