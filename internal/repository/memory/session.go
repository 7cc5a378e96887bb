package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
)

type sessionRepositoryImpl struct {
	store *Store
}

func NewSessionRepository(store *Store) session.SessionRepository {
	return &sessionRepositoryImpl{store: store}
}

func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (session.ProductivitySession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.sessions[id]
	if !ok {
		return session.ProductivitySession{}, session.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (r *sessionRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]session.ProductivitySession, error) {
	return r.filter(func(s session.ProductivitySession) bool { return s.UserID == userID }), nil
}

func (r *sessionRepositoryImpl) ListByDate(ctx context.Context, date string) ([]session.ProductivitySession, error) {
	return r.filter(func(s session.ProductivitySession) bool { return s.Date == date }), nil
}

func (r *sessionRepositoryImpl) ListByUserAndDateRange(ctx context.Context, userID, startDate, endDate string) ([]session.ProductivitySession, error) {
	// YYYY-MM-DD compares chronologically as a string
	return r.filter(func(s session.ProductivitySession) bool {
		return s.UserID == userID && s.Date >= startDate && s.Date <= endDate
	}), nil
}

func (r *sessionRepositoryImpl) ListOpenBefore(ctx context.Context, date string) ([]session.ProductivitySession, error) {
	return r.filter(func(s session.ProductivitySession) bool {
		return s.Date < date && s.Status != session.StatusCompleted
	}), nil
}

func (r *sessionRepositoryImpl) filter(keep func(session.ProductivitySession) bool) []session.ProductivitySession {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []session.ProductivitySession{}
	for _, s := range r.store.sessions {
		if keep(s) {
			result = append(result, cloneSession(s))
		}
	}
	sortSessions(result)
	return result
}

// Upsert stores the session under its id, keeping the original created_at.
func (r *sessionRepositoryImpl) Upsert(ctx context.Context, s session.ProductivitySession) (session.ProductivitySession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now().UTC()
	if existing, ok := r.store.sessions[s.ID]; ok {
		s.CreatedAt = existing.CreatedAt
	} else if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	s = cloneSession(s)
	r.store.sessions[s.ID] = s
	r.store.persist(ctx)

	return cloneSession(s), nil
}

func sortSessions(sessions []session.ProductivitySession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date < sessions[j].Date
		}
		return sessions[i].UserID < sessions[j].UserID
	})
}

func cloneSession(s session.ProductivitySession) session.ProductivitySession {
	s.IdleEvents = append([]session.IdleEvent{}, s.IdleEvents...)
	s.Activities = append([]string{}, s.Activities...)
	if s.EndTime != nil {
		end := *s.EndTime
		s.EndTime = &end
	}
	s.Notes = cloneString(s.Notes)
	return s
}
