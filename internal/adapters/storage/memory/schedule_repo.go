package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"attendance-engine/internal/domain/schedule"
)

type scheduleRepo struct {
	mu   sync.RWMutex
	byID map[string]schedule.Event
}

func NewScheduleRepo() schedule.Repository {
	return &scheduleRepo{
		byID: make(map[string]schedule.Event),
	}
}

func (r *scheduleRepo) Create(ctx context.Context, e schedule.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}

	r.byID[e.ID] = cloneEvent(e)
	return nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (schedule.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return schedule.Event{}, schedule.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (r *scheduleRepo) ListByDay(ctx context.Context, day string, category schedule.Category) ([]schedule.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.Event, 0)
	for _, e := range r.byID {
		if e.Day != day {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, cloneEvent(e))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})

	return out, nil
}

func (r *scheduleRepo) MarkAttendance(ctx context.Context, eventID, subjectID string, p schedule.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[eventID]
	if !ok {
		return schedule.ErrNotFound
	}

	e = cloneEvent(e)
	if e.Participants == nil {
		e.Participants = make(map[string]schedule.Participant)
	}
	e.Participants[subjectID] = p
	e.UpdatedAt = time.Now()
	r.byID[eventID] = e
	return nil
}

func cloneEvent(e schedule.Event) schedule.Event {
	out := e
	out.Participants = make(map[string]schedule.Participant, len(e.Participants))
	for k, v := range e.Participants {
		out.Participants[k] = v
	}
	return out
}
