package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/importer"
)

type UserServiceImpl struct {
	user.UserRepository
	upload.UploadRepository
	parser *importer.Parser
	logger *slog.Logger
	now    func() time.Time
}

func NewUserService(
	userRepo user.UserRepository,
	uploadRepo upload.UploadRepository,
	parser *importer.Parser,
	logger *slog.Logger,
	now func() time.Time,
) user.UserService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &UserServiceImpl{
		UserRepository:   userRepo,
		UploadRepository: uploadRepo,
		parser:           parser,
		logger:           logger,
		now:              now,
	}
}

func requireAdmin(actor user.User) error {
	if !user.HasPermission(actor.Role, user.PermissionUserManage) {
		return user.ErrAdminAccessRequired
	}
	return nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, actor user.User, req user.CreateUserRequest) (user.User, error) {
	if err := requireAdmin(actor); err != nil {
		return user.User{}, err
	}

	created, err := s.UserRepository.Create(ctx, req)
	if err != nil {
		return user.User{}, err
	}
	s.logger.Info("User created", "user_id", created.ID, "role", created.Role, "created_by", actor.ID)
	return created, nil
}

// Update implements user.UserService. Non-admins may only change their own name and settings.
func (s *UserServiceImpl) Update(ctx context.Context, actor user.User, req user.UpdateUserRequest) (user.User, error) {
	if err := requireAdmin(actor); err != nil {
		selfService := req.ID == actor.ID &&
			req.Role == nil && req.Department == nil && req.ManagerID == nil && req.IsActive == nil
		if !selfService {
			return user.User{}, user.ErrInsufficientPermissions
		}
	}

	updated, err := s.UserRepository.Update(ctx, req)
	if err != nil {
		return user.User{}, err
	}
	return updated, nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor user.User) ([]user.User, error) {
	var (
		users []user.User
		err   error
	)
	switch {
	case actor.IsAdmin():
		users, err = s.UserRepository.List(ctx)
	case actor.IsManager():
		users, err = s.UserRepository.ListByManager(ctx, actor.ID)
	default:
		return nil, user.ErrInsufficientPermissions
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// AssignAgents implements user.UserService. Ids that are missing or not agents are skipped.
func (s *UserServiceImpl) AssignAgents(ctx context.Context, actor user.User, req user.AssignAgentsRequest) (user.AssignmentResult, error) {
	if err := requireAdmin(actor); err != nil {
		return user.AssignmentResult{}, err
	}
	if err := req.Validate(); err != nil {
		return user.AssignmentResult{}, err
	}

	manager, err := s.UserRepository.GetByID(ctx, req.ManagerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.AssignmentResult{}, user.ErrManagerNotFound
		}
		return user.AssignmentResult{}, fmt.Errorf("failed to get manager: %w", err)
	}
	if !manager.IsManager() {
		return user.AssignmentResult{}, user.ErrNotAManager
	}

	result := user.AssignmentResult{ManagerID: manager.ID}
	for _, id := range req.AgentIDs {
		agent, err := s.UserRepository.GetByID(ctx, id)
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return user.AssignmentResult{}, fmt.Errorf("failed to get agent: %w", err)
		}
		if err != nil || !agent.IsAgent() {
			result.Skipped++
			result.SkippedIDs = append(result.SkippedIDs, id)
			continue
		}

		if err := s.assign(ctx, agent.ID, manager.ID); err != nil {
			return user.AssignmentResult{}, err
		}
		result.AssignedAgents++
	}

	s.logger.Info("Agents assigned", "manager_id", manager.ID, "assigned", result.AssignedAgents, "skipped", result.Skipped)
	return result, nil
}

func (s *UserServiceImpl) assign(ctx context.Context, agentID, managerID string) error {
	if _, err := s.UserRepository.Update(ctx, user.UpdateUserRequest{ID: agentID, ManagerID: &managerID}); err != nil {
		return fmt.Errorf("failed to assign agent: %w", err)
	}
	return nil
}
