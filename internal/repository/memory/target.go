package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
)

type targetRepositoryImpl struct {
	store *Store
}

func NewTargetRepository(store *Store) target.TargetRepository {
	return &targetRepositoryImpl{store: store}
}

func (r *targetRepositoryImpl) GetByID(ctx context.Context, id string) (target.ProductivityTarget, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.targets[id]
	if !ok {
		return target.ProductivityTarget{}, target.ErrTargetNotFound
	}
	return cloneTarget(t), nil
}

func (r *targetRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]target.ProductivityTarget, error) {
	return r.filter(func(t target.ProductivityTarget) bool { return t.UserID == userID }), nil
}

func (r *targetRepositoryImpl) ListByDate(ctx context.Context, date string) ([]target.ProductivityTarget, error) {
	return r.filter(func(t target.ProductivityTarget) bool { return t.TargetDate == date }), nil
}

func (r *targetRepositoryImpl) ListByUserAndMonth(ctx context.Context, userID, month string) ([]target.ProductivityTarget, error) {
	return r.filter(func(t target.ProductivityTarget) bool {
		return t.UserID == userID && strings.HasPrefix(t.TargetDate, month)
	}), nil
}

func (r *targetRepositoryImpl) filter(keep func(target.ProductivityTarget) bool) []target.ProductivityTarget {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []target.ProductivityTarget{}
	for _, t := range r.store.targets {
		if keep(t) {
			result = append(result, cloneTarget(t))
		}
	}
	sortTargets(result)
	return result
}

func (r *targetRepositoryImpl) Upsert(ctx context.Context, t target.ProductivityTarget) (target.ProductivityTarget, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now().UTC()
	if existing, ok := r.store.targets[t.ID]; ok {
		t.CreatedAt = existing.CreatedAt
	} else if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	t = cloneTarget(t)
	r.store.targets[t.ID] = t
	r.store.persist(ctx)

	return cloneTarget(t), nil
}

func sortTargets(targets []target.ProductivityTarget) {
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].TargetDate != targets[j].TargetDate {
			return targets[i].TargetDate < targets[j].TargetDate
		}
		return targets[i].UserID < targets[j].UserID
	})
}

func cloneTarget(t target.ProductivityTarget) target.ProductivityTarget {
	if t.TargetExecutions != nil {
		v := *t.TargetExecutions
		t.TargetExecutions = &v
	}
	t.Notes = cloneString(t.Notes)
	return t
}

type taskDefinitionRepositoryImpl struct {
	store *Store
}

func NewTaskDefinitionRepository(store *Store) target.TaskDefinitionRepository {
	return &taskDefinitionRepositoryImpl{store: store}
}

func (r *taskDefinitionRepositoryImpl) ReplaceForOwner(ctx context.Context, ownerID string, defs []target.TaskTargetDefinition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now().UTC()
	delete(r.store.definitions, ownerID)
	for _, d := range defs {
		d.OwnerID = ownerID
		d.TaskName = strings.TrimSpace(d.TaskName)
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
		r.store.putDefinition(d)
	}
	r.store.persist(ctx)
	return nil
}

func (r *taskDefinitionRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]target.TaskTargetDefinition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedDefinitions(r.store.definitions[ownerID]), nil
}

func (r *taskDefinitionRepositoryImpl) Get(ctx context.Context, ownerID, taskName string) (target.TaskTargetDefinition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.definitions[ownerID][target.TaskKey(taskName)]
	if !ok {
		return target.TaskTargetDefinition{}, target.ErrTaskDefinitionNotFound
	}
	return d, nil
}

// putDefinition expects the write lock to be held. A later duplicate task name wins.
func (s *Store) putDefinition(d target.TaskTargetDefinition) {
	defs, ok := s.definitions[d.OwnerID]
	if !ok {
		defs = make(map[string]target.TaskTargetDefinition)
		s.definitions[d.OwnerID] = defs
	}
	defs[d.Key()] = d
}

func sortedDefinitions(defs map[string]target.TaskTargetDefinition) []target.TaskTargetDefinition {
	result := make([]target.TaskTargetDefinition, 0, len(defs))
	for _, d := range defs {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key() < result[j].Key() })
	return result
}
