// Package fixtures seeds an in-memory store with demo users and records.
// It is used by tests only; the production start-up path never calls it.
package fixtures

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/productivity-backend-go/internal/repository/memory"
	"golang.org/x/crypto/bcrypt"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

// Today is the fixed "now" of every fixture clock.
var Today = time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)

const (
	TodayDate = "2025-02-10"
	Password  = "password123"
)

// Clock returns a fixed clock at Today.
func Clock() func() time.Time {
	return func() time.Time { return Today }
}

// TickingClock starts at Today and moves one millisecond forward per reading, so
// records created in sequence keep their creation order.
func TickingClock() func() time.Time {
	var mu sync.Mutex
	current := Today
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
}

// Date returns Today shifted by days as YYYY-MM-DD.
func Date(days int) string {
	return Today.AddDate(0, 0, days).Format("2006-01-02")
}

// ==========================================
// REPOSITORIES
// ==========================================

// Repositories bundles every memory repository built over one store.
type Repositories struct {
	Store       *memory.Store
	Users       user.UserRepository
	Sessions    session.SessionRepository
	Targets     target.TargetRepository
	Definitions target.TaskDefinitionRepository
	Executions  execution.ExecutionRepository
	Uploads     upload.UploadRepository
}

// NewRepositories builds an unpersisted store on a ticking fixture clock.
func NewRepositories() Repositories {
	store := memory.NewStore(memory.Options{
		BcryptCost: bcrypt.MinCost,
		Logger:     logger.Discard(),
		Now:        TickingClock(),
	})
	return Repositories{
		Store:       store,
		Users:       memory.NewUserRepository(store),
		Sessions:    memory.NewSessionRepository(store),
		Targets:     memory.NewTargetRepository(store),
		Definitions: memory.NewTaskDefinitionRepository(store),
		Executions:  memory.NewExecutionRepository(store),
		Uploads:     memory.NewUploadRepository(store),
	}
}

// ==========================================
// DEMO USERS
// ==========================================

// Demo holds the seeded users. Alice and Bob report to Manager in Sales;
// Carol is an unassigned Support agent.
type Demo struct {
	Admin   user.User
	Manager user.User
	Alice   user.User
	Bob     user.User
	Carol   user.User
}

// SeedDemo creates the demo users, all with Password.
func SeedDemo(ctx context.Context, users user.UserRepository) (Demo, error) {
	var d Demo
	var err error

	if d.Admin, err = createUser(ctx, users, "admin@company.com", "Admin", user.RoleAdmin, nil, nil); err != nil {
		return Demo{}, err
	}
	if d.Manager, err = createUser(ctx, users, "manager@company.com", "Maria Manager", user.RoleManager, strPtr("Sales"), nil); err != nil {
		return Demo{}, err
	}
	if d.Alice, err = createUser(ctx, users, "alice@company.com", "Alice", user.RoleAgent, strPtr("Sales"), &d.Manager.ID); err != nil {
		return Demo{}, err
	}
	if d.Bob, err = createUser(ctx, users, "bob@company.com", "Bob", user.RoleAgent, strPtr("Sales"), &d.Manager.ID); err != nil {
		return Demo{}, err
	}
	if d.Carol, err = createUser(ctx, users, "carol@company.com", "Carol", user.RoleAgent, strPtr("Support"), nil); err != nil {
		return Demo{}, err
	}
	return d, nil
}

func createUser(ctx context.Context, users user.UserRepository, email, name string, role user.Role, department, managerID *string) (user.User, error) {
	u, err := users.Create(ctx, user.CreateUserRequest{
		Email:      email,
		Name:       name,
		Password:   Password,
		Role:       string(role),
		Department: department,
		ManagerID:  managerID,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return u, nil
}

// ==========================================
// RECORDS
// ==========================================

// AddSession upserts a completed session with the given total and idle minutes.
func AddSession(ctx context.Context, sessions session.SessionRepository, userID, date string, totalMinutes, idleMinutes int) (session.ProductivitySession, error) {
	start, err := time.Parse("2006-01-02", date)
	if err != nil {
		return session.ProductivitySession{}, err
	}
	start = start.Add(9 * time.Hour)
	end := start.Add(time.Duration(totalMinutes) * time.Minute)

	return sessions.Upsert(ctx, session.ProductivitySession{
		ID:            session.ID(userID, date),
		UserID:        userID,
		Date:          date,
		StartTime:     start,
		EndTime:       &end,
		TotalMinutes:  totalMinutes,
		ActiveMinutes: totalMinutes - idleMinutes,
		IdleMinutes:   idleMinutes,
		IdleEvents:    []session.IdleEvent{},
		Status:        session.StatusCompleted,
		Activities:    []string{},
	})
}

// AddSessions upserts one session per total, on consecutive days ending at Today.
// The last total falls on Today.
func AddSessions(ctx context.Context, sessions session.SessionRepository, userID string, idleMinutes int, totals ...int) error {
	for i, total := range totals {
		date := Date(i - len(totals) + 1)
		if _, err := AddSession(ctx, sessions, userID, date, total, idleMinutes); err != nil {
			return err
		}
	}
	return nil
}

// AddExecution upserts an execution row and a target carrying the expected count.
func AddExecution(ctx context.Context, executions execution.ExecutionRepository, targets target.TargetRepository, u user.User, date string, done, expected int) error {
	if _, err := executions.Upsert(ctx, execution.AgentExecution{
		ID:               execution.ID(u.ID, date),
		UserID:           u.ID,
		AgentName:        u.Name,
		ExecutionDate:    date,
		TotalExecutions:  done,
		ExecutionsByType: map[string]int{"Sales Calls": done},
	}); err != nil {
		return err
	}

	_, err := targets.Upsert(ctx, target.ProductivityTarget{
		ID:               target.ID(u.ID, date),
		UserID:           u.ID,
		TargetDate:       date,
		TargetMinutes:    target.DailyMinutes,
		TargetExecutions: &expected,
		Status:           target.StatusPending,
	})
	return err
}
