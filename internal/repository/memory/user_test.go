package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(nil))

	created, err := repo.Create(ctx, user.CreateUserRequest{
		Email:      "  Alice.Smith@Example.COM ",
		Name:       " Alice ",
		Password:   "longenough",
		Role:       "agent",
		Department: strPtr(" Sales "),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice.smith@example.com", created.Email)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, "Sales", *created.Department)
	assert.True(t, created.IsActive)
	assert.Equal(t, user.DefaultSettings(), created.Settings)
	assert.Contains(t, created.ID, "user-")

	for _, variant := range []string{"alice.smith@example.com", "ALICE.SMITH@EXAMPLE.COM", "\tAlice.Smith@example.com  "} {
		got, err := repo.GetByEmail(ctx, variant)
		require.NoError(t, err, variant)
		assert.Equal(t, created.ID, got.ID)
	}
}

func TestUserRepository_CreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(nil))

	_, err := repo.Create(ctx, user.CreateUserRequest{Email: "taken@example.com", Name: "T", Password: "password123", Role: "agent"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		req   user.CreateUserRequest
		field string
	}{
		{"empty email", user.CreateUserRequest{Email: " ", Name: "N", Password: "password123", Role: "agent"}, "email"},
		{"short password", user.CreateUserRequest{Email: "x@example.com", Name: "N", Password: "short", Role: "agent"}, "password"},
		{"empty name", user.CreateUserRequest{Email: "x@example.com", Name: "", Password: "password123", Role: "agent"}, "name"},
		{"bad role", user.CreateUserRequest{Email: "x@example.com", Name: "N", Password: "password123", Role: "owner"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.req)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}

	t.Run("duplicate email in another case", func(t *testing.T) {
		_, err := repo.Create(ctx, user.CreateUserRequest{Email: "TAKEN@example.com", Name: "T2", Password: "password123", Role: "agent"})
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})
}

func TestUserRepository_ManagerReference(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(nil))

	agent, err := repo.Create(ctx, user.CreateUserRequest{Email: "a@example.com", Name: "A", Password: "password123", Role: "agent"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.CreateUserRequest{Email: "b@example.com", Name: "B", Password: "password123", Role: "agent", ManagerID: strPtr("user-missing")})
	assert.ErrorIs(t, err, user.ErrManagerNotFound)

	_, err = repo.Create(ctx, user.CreateUserRequest{Email: "b@example.com", Name: "B", Password: "password123", Role: "agent", ManagerID: &agent.ID})
	assert.ErrorIs(t, err, user.ErrNotAManager)

	manager, err := repo.Create(ctx, user.CreateUserRequest{Email: "m@example.com", Name: "M", Password: "password123", Role: "manager"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, user.UpdateUserRequest{ID: agent.ID, ManagerID: &manager.ID})
	require.NoError(t, err)
	assert.True(t, updated.ReportsTo(manager.ID))

	team, err := repo.ListByManager(ctx, manager.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, agent.ID, team[0].ID)

	_, err = repo.Update(ctx, user.UpdateUserRequest{ID: manager.ID, ManagerID: &manager.ID})
	assert.ErrorIs(t, err, user.ErrSelfManager)

	cleared, err := repo.Update(ctx, user.UpdateUserRequest{ID: agent.ID, ManagerID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.ManagerID)
}

func TestUserRepository_UpdateNotFound(t *testing.T) {
	repo := NewUserRepository(newTestStore(nil))
	_, err := repo.Update(context.Background(), user.UpdateUserRequest{ID: "user-nope", Name: strPtr("X")})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(nil))

	for _, req := range []user.CreateUserRequest{
		{Email: "admin@example.com", Name: "Admin", Password: "password123", Role: "admin"},
		{Email: "a1@example.com", Name: "A1", Password: "password123", Role: "agent", Department: strPtr("Sales")},
		{Email: "a2@example.com", Name: "A2", Password: "password123", Role: "agent", Department: strPtr("Support")},
		{Email: "a3@example.com", Name: "A3", Password: "password123", Role: "agent", Department: strPtr("Sales")},
	} {
		_, err := repo.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "Admin", all[0].Name)

	agents, err := repo.ListByRole(ctx, user.RoleAgent)
	require.NoError(t, err)
	assert.Len(t, agents, 3)

	sales, err := repo.ListByDepartment(ctx, "Sales")
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "A1", sales[0].Name)
	assert.Equal(t, "A3", sales[1].Name)

	hasAdmin, err := repo.HasAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, hasAdmin)
}

func TestUserRepository_Credentials(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(nil))

	u, err := repo.Create(ctx, user.CreateUserRequest{Email: "c@example.com", Name: "C", Password: "password123", Role: "agent"})
	require.NoError(t, err)

	_, err = repo.VerifyCredentials(ctx, "C@example.com", "password123")
	assert.NoError(t, err)

	_, err = repo.VerifyCredentials(ctx, "c@example.com", "wrongpass1")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = repo.VerifyCredentials(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	assert.ErrorIs(t, repo.SetPassword(ctx, u.ID, "short"), user.ErrInvalidPasswordLength)
	require.NoError(t, repo.SetPassword(ctx, u.ID, "newpassword"))
	_, err = repo.VerifyCredentials(ctx, "c@example.com", "newpassword")
	assert.NoError(t, err)

	inactive := false
	_, err = repo.Update(ctx, user.UpdateUserRequest{ID: u.ID, IsActive: &inactive})
	require.NoError(t, err)
	_, err = repo.VerifyCredentials(ctx, "c@example.com", "newpassword")
	assert.ErrorIs(t, err, user.ErrUserInactive)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(nil))

	u, err := repo.Create(ctx, user.CreateUserRequest{Email: "d@example.com", Name: "D", Password: "password123", Role: "agent", Department: strPtr("Ops")})
	require.NoError(t, err)

	*u.Department = "Changed"
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ops", *got.Department)
}
