package user

import "context"

// UserService covers user administration and team assignment.
type UserService interface {
	Create(ctx context.Context, actor User, req CreateUserRequest) (User, error)
	Update(ctx context.Context, actor User, req UpdateUserRequest) (User, error)
	List(ctx context.Context, actor User) ([]User, error)
	AssignAgents(ctx context.Context, actor User, req AssignAgentsRequest) (AssignmentResult, error)
	ImportAssignments(ctx context.Context, actor User, fileName string, content []byte) (ImportAssignmentsResult, error)
}
