// Package memory holds the in-process record store and its per-entity repositories.
//
// All collections live in maps guarded by one RWMutex. When a kvstore medium is
// configured every successful mutation rewrites the full snapshot under the write lock.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/kvstore"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSnapshotKey = "productivity-store"

type Options struct {
	// Medium persists snapshots. Nil keeps the store purely in memory.
	Medium      kvstore.Medium
	SnapshotKey string
	BcryptCost  int
	Logger      *slog.Logger
	Now         func() time.Time
}

type Store struct {
	mu sync.RWMutex

	users       map[string]user.User
	passwords   map[string][]byte
	sessions    map[string]session.ProductivitySession
	targets     map[string]target.ProductivityTarget
	executions  map[string]execution.AgentExecution
	definitions map[string]map[string]target.TaskTargetDefinition
	bulkUploads []upload.BulkUpload
	execUploads []upload.BulkExecutionUpload

	medium      kvstore.Medium
	snapshotKey string
	bcryptCost  int
	logger      *slog.Logger
	now         func() time.Time
}

func NewStore(opts Options) *Store {
	if opts.SnapshotKey == "" {
		opts.SnapshotKey = DefaultSnapshotKey
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		medium:      opts.Medium,
		snapshotKey: opts.SnapshotKey,
		bcryptCost:  opts.BcryptCost,
		logger:      opts.Logger,
		now:         opts.Now,
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.users = make(map[string]user.User)
	s.passwords = make(map[string][]byte)
	s.sessions = make(map[string]session.ProductivitySession)
	s.targets = make(map[string]target.ProductivityTarget)
	s.executions = make(map[string]execution.AgentExecution)
	s.definitions = make(map[string]map[string]target.TaskTargetDefinition)
	s.bulkUploads = nil
	s.execUploads = nil
}

type passwordEntry struct {
	UserID       string `json:"user_id"`
	PasswordHash string `json:"password_hash"`
}

// snapshot is the persisted document. Every collection is written in full.
type snapshot struct {
	Users                 []user.User                   `json:"users"`
	Passwords             []passwordEntry               `json:"passwords"`
	Sessions              []session.ProductivitySession `json:"sessions"`
	Targets               []target.ProductivityTarget   `json:"targets"`
	Executions            []execution.AgentExecution    `json:"executions"`
	TaskTargetDefinitions []target.TaskTargetDefinition `json:"task_target_definitions"`
	BulkUploads           []upload.BulkUpload           `json:"bulk_uploads"`
	BulkExecutionUploads  []upload.BulkExecutionUpload  `json:"bulk_execution_uploads"`
	SavedAt               time.Time                     `json:"saved_at"`
}

// Load replaces the store contents with the persisted snapshot. A missing snapshot
// leaves the store empty.
func (s *Store) Load(ctx context.Context) error {
	if s.medium == nil {
		return nil
	}

	raw, err := s.medium.Get(ctx, s.snapshotKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	for _, u := range snap.Users {
		s.users[u.ID] = u
	}
	for _, p := range snap.Passwords {
		s.passwords[p.UserID] = []byte(p.PasswordHash)
	}
	for _, sess := range snap.Sessions {
		s.sessions[sess.ID] = sess
	}
	for _, t := range snap.Targets {
		s.targets[t.ID] = t
	}
	for _, e := range snap.Executions {
		s.executions[e.ID] = e
	}
	for _, d := range snap.TaskTargetDefinitions {
		s.putDefinition(d)
	}
	s.bulkUploads = snap.BulkUploads
	s.execUploads = snap.BulkExecutionUploads

	s.logger.Info("store snapshot loaded",
		slog.Int("users", len(snap.Users)),
		slog.Int("sessions", len(snap.Sessions)),
		slog.Time("saved_at", snap.SavedAt),
	)
	return nil
}

// Flush writes the current contents to the medium.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSnapshot(ctx)
}

// persist must be called with the write lock held, after a mutation succeeded.
// A failed write is logged; the in-memory mutation stands.
func (s *Store) persist(ctx context.Context) {
	if err := s.writeSnapshot(ctx); err != nil {
		s.logger.Error("failed to persist store snapshot",
			slog.String("key", s.snapshotKey),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Store) writeSnapshot(ctx context.Context) error {
	if s.medium == nil {
		return nil
	}

	raw, err := json.Marshal(s.buildSnapshot())
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.medium.Put(ctx, s.snapshotKey, raw); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *Store) buildSnapshot() snapshot {
	snap := snapshot{
		Users:                 sortedUsers(s.users),
		Passwords:             make([]passwordEntry, 0, len(s.passwords)),
		Sessions:              make([]session.ProductivitySession, 0, len(s.sessions)),
		Targets:               make([]target.ProductivityTarget, 0, len(s.targets)),
		Executions:            make([]execution.AgentExecution, 0, len(s.executions)),
		TaskTargetDefinitions: []target.TaskTargetDefinition{},
		BulkUploads:           append([]upload.BulkUpload{}, s.bulkUploads...),
		BulkExecutionUploads:  append([]upload.BulkExecutionUpload{}, s.execUploads...),
		SavedAt:               s.now().UTC(),
	}

	for id, hash := range s.passwords {
		snap.Passwords = append(snap.Passwords, passwordEntry{UserID: id, PasswordHash: string(hash)})
	}
	sort.Slice(snap.Passwords, func(i, j int) bool { return snap.Passwords[i].UserID < snap.Passwords[j].UserID })

	for _, sess := range s.sessions {
		snap.Sessions = append(snap.Sessions, sess)
	}
	sortSessions(snap.Sessions)

	for _, t := range s.targets {
		snap.Targets = append(snap.Targets, t)
	}
	sortTargets(snap.Targets)

	for _, e := range s.executions {
		snap.Executions = append(snap.Executions, e)
	}
	sortExecutions(snap.Executions)

	for _, defs := range s.definitions {
		snap.TaskTargetDefinitions = append(snap.TaskTargetDefinitions, sortedDefinitions(defs)...)
	}
	sort.SliceStable(snap.TaskTargetDefinitions, func(i, j int) bool {
		return snap.TaskTargetDefinitions[i].OwnerID < snap.TaskTargetDefinitions[j].OwnerID
	})

	return snap
}
