package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	Update(ctx context.Context, req UpdateUserRequest) (User, error)
	List(ctx context.Context) ([]User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	ListByManager(ctx context.Context, managerID string) ([]User, error)
	ListByDepartment(ctx context.Context, department string) ([]User, error)
	HasUsers(ctx context.Context) (bool, error)
	HasAdmin(ctx context.Context) (bool, error)
	VerifyCredentials(ctx context.Context, email, password string) (User, error)
	SetPassword(ctx context.Context, id, password string) error
}
