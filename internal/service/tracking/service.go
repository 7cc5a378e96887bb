package tracking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type TrackingServiceImpl struct {
	session.SessionRepository
	target.TargetRepository
	now func() time.Time
}

// RecordActivity adds minutes to the session of the day containing req.At.
func (t *TrackingServiceImpl) RecordActivity(ctx context.Context, userID string, req session.RecordActivityRequest) (session.ProductivitySession, error) {
	if err := req.Validate(); err != nil {
		return session.ProductivitySession{}, err
	}

	at := t.now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	sess, err := t.sessionOfDay(ctx, userID, at)
	if err != nil {
		return session.ProductivitySession{}, err
	}

	sess.ActiveMinutes += req.ActiveMinutes
	sess.IdleMinutes += req.IdleMinutes
	sess.TotalMinutes = sess.ActiveMinutes + sess.IdleMinutes
	sess.Status = session.StatusActive
	if label := strings.TrimSpace(req.Activity); label != "" && !sess.HasActivity(label) {
		sess.Activities = append(sess.Activities, label)
	}

	return t.save(ctx, sess)
}

// RecordIdleEvent appends the event to the session of its start day.
func (t *TrackingServiceImpl) RecordIdleEvent(ctx context.Context, userID string, req session.RecordIdleEventRequest) (session.ProductivitySession, error) {
	if err := req.Validate(); err != nil {
		return session.ProductivitySession{}, err
	}

	start := req.StartTime.UTC()
	end := req.EndTime.UTC()

	sess, err := t.sessionOfDay(ctx, userID, start)
	if err != nil {
		return session.ProductivitySession{}, err
	}

	duration := int(math.Round(end.Sub(start).Minutes()))
	sess.IdleEvents = append(sess.IdleEvents, session.IdleEvent{
		ID:                "idle-" + uuid.NewString(),
		SessionID:         sess.ID,
		StartTime:         start,
		EndTime:           end,
		DurationMinutes:   duration,
		DetectionMethod:   session.DetectionMethod(req.DetectionMethod),
		FlaggedAsWFHBreak: req.FlaggedAsWFHBreak,
	})
	sess.IdleMinutes += duration
	sess.TotalMinutes = sess.ActiveMinutes + sess.IdleMinutes
	sess.Status = session.StatusIdle

	return t.save(ctx, sess)
}

func (t *TrackingServiceImpl) CompleteSession(ctx context.Context, userID, date string) (session.ProductivitySession, error) {
	if _, ok := validator.IsValidDate(date); !ok {
		return session.ProductivitySession{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	sess, err := t.SessionRepository.GetByID(ctx, session.ID(userID, date))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return session.ProductivitySession{}, err
		}
		return session.ProductivitySession{}, fmt.Errorf("failed to get session: %w", err)
	}

	now := t.now().UTC()
	sess.EndTime = &now
	sess.Status = session.StatusCompleted

	return t.save(ctx, sess)
}

func (t *TrackingServiceImpl) ListSessions(ctx context.Context, req session.ListSessionsRequest) ([]session.ProductivitySession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sessions, err := t.SessionRepository.ListByUserAndDateRange(ctx, req.UserID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// CloseStaleSessions ends every open session dated before today at the time its
// tracked minutes ran out, never later than the end of its day.
func (t *TrackingServiceImpl) CloseStaleSessions(ctx context.Context) (int, error) {
	today := t.now().UTC().Format(validator.DateLayout)

	stale, err := t.SessionRepository.ListOpenBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list open sessions: %w", err)
	}

	for _, sess := range stale {
		end := sess.StartTime.Add(time.Duration(sess.TotalMinutes) * time.Minute)
		if day, ok := validator.IsValidDate(sess.Date); ok {
			if endOfDay := day.Add(24*time.Hour - time.Second); end.After(endOfDay) {
				end = endOfDay
			}
		}
		sess.EndTime = &end
		sess.Status = session.StatusCompleted

		if _, err := t.save(ctx, sess); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// sessionOfDay loads the session for at's calendar day, or starts a fresh one.
func (t *TrackingServiceImpl) sessionOfDay(ctx context.Context, userID string, at time.Time) (session.ProductivitySession, error) {
	date := at.Format(validator.DateLayout)

	sess, err := t.SessionRepository.GetByID(ctx, session.ID(userID, date))
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, session.ErrSessionNotFound) {
		return session.ProductivitySession{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session.ProductivitySession{
		ID:         session.ID(userID, date),
		UserID:     userID,
		Date:       date,
		StartTime:  at,
		IdleEvents: []session.IdleEvent{},
		Status:     session.StatusActive,
		Activities: []string{},
	}, nil
}

// save upserts the session, then moves the day's target to the status its minutes earn.
func (t *TrackingServiceImpl) save(ctx context.Context, sess session.ProductivitySession) (session.ProductivitySession, error) {
	saved, err := t.SessionRepository.Upsert(ctx, sess)
	if err != nil {
		return session.ProductivitySession{}, fmt.Errorf("failed to save session: %w", err)
	}

	tgt, err := t.TargetRepository.GetByID(ctx, target.ID(saved.UserID, saved.Date))
	if err != nil {
		if errors.Is(err, target.ErrTargetNotFound) {
			return saved, nil
		}
		return session.ProductivitySession{}, fmt.Errorf("failed to get target: %w", err)
	}

	if status := target.StatusFor(saved.TotalMinutes, tgt.TargetMinutes); status != tgt.Status {
		tgt.Status = status
		if _, err := t.TargetRepository.Upsert(ctx, tgt); err != nil {
			return session.ProductivitySession{}, fmt.Errorf("failed to update target status: %w", err)
		}
	}

	return saved, nil
}

func NewTrackingService(
	sessionRepo session.SessionRepository,
	targetRepo target.TargetRepository,
	now func() time.Time,
) session.TrackingService {
	if now == nil {
		now = time.Now
	}
	return &TrackingServiceImpl{
		SessionRepository: sessionRepo,
		TargetRepository:  targetRepo,
		now:               now,
	}
}
