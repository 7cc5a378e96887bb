package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userRepositoryImpl struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepositoryImpl{store: store}
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.userByEmail(validator.NormalizeEmail(email))
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// userByEmail expects a normalized address and the lock to be held.
func (s *Store) userByEmail(email string) (user.User, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return user.User{}, false
}

// checkManager expects the lock to be held.
func (s *Store) checkManager(managerID string) error {
	m, ok := s.users[managerID]
	if !ok {
		return user.ErrManagerNotFound
	}
	if !m.IsManager() {
		return user.ErrNotAManager
	}
	return nil
}

func (r *userRepositoryImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	// Hash before taking the lock
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), r.store.bcryptCost)
	if err != nil {
		return user.User{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := validator.NormalizeEmail(req.Email)
	if _, exists := r.store.userByEmail(email); exists {
		return user.User{}, user.ErrUserEmailExists
	}

	var managerID *string
	if req.ManagerID != nil {
		id := strings.TrimSpace(*req.ManagerID)
		if err := r.store.checkManager(id); err != nil {
			return user.User{}, err
		}
		managerID = &id
	}

	now := r.store.now().UTC()
	u := user.User{
		ID:         "user-" + uuid.NewString(),
		Email:      email,
		Name:       strings.TrimSpace(req.Name),
		Role:       user.Role(req.Role),
		Department: trimmedOrNil(req.Department),
		ManagerID:  managerID,
		IsActive:   true,
		Settings:   user.DefaultSettings(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	r.store.users[u.ID] = u
	r.store.passwords[u.ID] = hash
	r.store.persist(ctx)

	return cloneUser(u), nil
}

func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[req.ID]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		u.Role = user.Role(*req.Role)
	}
	if req.Department != nil {
		u.Department = trimmedOrNil(req.Department)
	}
	if req.ManagerID != nil {
		id := strings.TrimSpace(*req.ManagerID)
		switch {
		case id == "":
			u.ManagerID = nil
		case id == u.ID:
			return user.User{}, user.ErrSelfManager
		default:
			if err := r.store.checkManager(id); err != nil {
				return user.User{}, err
			}
			u.ManagerID = &id
		}
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.Settings != nil {
		u.Settings = *req.Settings
	}
	u.UpdatedAt = r.store.now().UTC()

	r.store.users[u.ID] = u
	r.store.persist(ctx)

	return cloneUser(u), nil
}

func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	return r.filter(func(user.User) bool { return true }), nil
}

func (r *userRepositoryImpl) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return r.filter(func(u user.User) bool { return u.Role == role }), nil
}

func (r *userRepositoryImpl) ListByManager(ctx context.Context, managerID string) ([]user.User, error) {
	return r.filter(func(u user.User) bool { return u.ReportsTo(managerID) }), nil
}

func (r *userRepositoryImpl) ListByDepartment(ctx context.Context, department string) ([]user.User, error) {
	return r.filter(func(u user.User) bool { return u.InDepartment(department) }), nil
}

func (r *userRepositoryImpl) filter(keep func(user.User) bool) []user.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []user.User{}
	for _, u := range sortedUsers(r.store.users) {
		if keep(u) {
			result = append(result, cloneUser(u))
		}
	}
	return result
}

func (r *userRepositoryImpl) HasUsers(ctx context.Context) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.users) > 0, nil
}

func (r *userRepositoryImpl) HasAdmin(ctx context.Context) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.IsAdmin() {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepositoryImpl) VerifyCredentials(ctx context.Context, email, password string) (user.User, error) {
	r.store.mu.RLock()
	u, ok := r.store.userByEmail(validator.NormalizeEmail(email))
	hash := r.store.passwords[u.ID]
	r.store.mu.RUnlock()

	if !ok || len(hash) == 0 {
		return user.User{}, user.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}
	if !u.IsActive {
		return user.User{}, user.ErrUserInactive
	}
	return cloneUser(u), nil
}

func (r *userRepositoryImpl) SetPassword(ctx context.Context, id, password string) error {
	if len([]rune(password)) < user.MinPasswordLength {
		return user.ErrInvalidPasswordLength
	}
	if len(password) > user.MaxPasswordBytes {
		return user.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.store.bcryptCost)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return user.ErrUserNotFound
	}
	r.store.passwords[id] = hash
	r.store.persist(ctx)
	return nil
}

func sortedUsers(users map[string]user.User) []user.User {
	result := make([]user.User, 0, len(users))
	for _, u := range users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func cloneUser(u user.User) user.User {
	u.Department = cloneString(u.Department)
	u.ManagerID = cloneString(u.ManagerID)
	return u
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
