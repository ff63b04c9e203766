package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"attendance-engine/internal/domain/attendance"
	"attendance-engine/internal/domain/schedule"
	"attendance-engine/internal/domain/subjects"
)

var (
	ErrNotFound = errors.New("not found")
)

// SubjectsRepo implementa subjects.Repository y attendance.Repository
// sobre maps en memoria (dev/tests). El Commit aplica el lado sujeto
// bajo un solo lock y después el espejo; MirrorFailures permite simular
// la falla parcial del espejo en tests.
type SubjectsRepo struct {
	mu     sync.RWMutex
	byID   map[string]subjects.Subject
	mirror map[string]map[string]attendance.MirrorRecord // locación/día -> sujeto -> record

	// MirrorFailures hace fallar los próximos N writes del espejo.
	MirrorFailures int
}

func NewSubjectsRepo() *SubjectsRepo {
	return &SubjectsRepo{
		byID:   make(map[string]subjects.Subject),
		mirror: make(map[string]map[string]attendance.MirrorRecord),
	}
}

// --- subjects.Repository ---

func (r *SubjectsRepo) Create(ctx context.Context, s subjects.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("subject id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("subject already exists")
	}
	if s.Records == nil {
		s.Records = make(map[string]subjects.Record)
	}
	if s.Version == 0 {
		s.Version = 1
	}
	r.byID[s.ID] = s.Clone()
	return nil
}

func (r *SubjectsRepo) GetByID(ctx context.Context, id string) (subjects.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return subjects.Subject{}, ErrNotFound
	}
	return s.Clone(), nil
}

func (r *SubjectsRepo) List(ctx context.Context) ([]subjects.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subjects.Subject, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s.Clone())
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// --- attendance.Repository ---

func (r *SubjectsRepo) GetSubject(ctx context.Context, id string) (subjects.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return subjects.Subject{}, attendance.ErrSubjectNotFound
	}
	return s.Clone(), nil
}

func (r *SubjectsRepo) Commit(ctx context.Context, cs attendance.Changeset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[cs.SubjectID]
	if !ok {
		return attendance.ErrSubjectNotFound
	}
	if s.Version != cs.ExpectedVersion {
		return attendance.ErrVersionConflict
	}

	s = s.Clone()

	p := cs.Patch
	if p.ClockedIn != nil {
		s.ClockedIn = *p.ClockedIn
	}
	if p.ActiveRecordKey != nil {
		s.ActiveRecordKey = *p.ActiveRecordKey
	}
	if p.LastClockIn != nil {
		s.LastClockIn = p.LastClockIn
	}
	if p.LastClockOut != nil {
		s.LastClockOut = p.LastClockOut
	}
	s.DaysPresent += p.DaysPresentDelta
	s.DaysLate += p.DaysLateDelta
	s.TotalHoursWorked += p.HoursDelta

	if cs.Record != nil {
		if s.Records == nil {
			s.Records = make(map[string]subjects.Record)
		}
		s.Records[cs.Record.Key] = *cs.Record
	}

	if cs.EventLink != nil {
		if s.Events == nil {
			s.Events = make(map[schedule.Category]map[string]subjects.EventEntry)
		}
		if s.Events[cs.EventLink.Category] == nil {
			s.Events[cs.EventLink.Category] = make(map[string]subjects.EventEntry)
		}
		s.Events[cs.EventLink.Category][cs.EventLink.EventID] = cs.EventLink.Entry
	}

	s.Version++
	s.UpdatedAt = time.Now()
	r.byID[cs.SubjectID] = s

	if cs.Mirror != nil {
		if err := r.applyMirrorLocked(*cs.Mirror); err != nil {
			return &attendance.PartialWriteError{Err: err}
		}
	}
	return nil
}

func (r *SubjectsRepo) CommitMirror(ctx context.Context, m attendance.MirrorRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyMirrorLocked(m)
}

func (r *SubjectsRepo) ListMirror(ctx context.Context, locationKey, day string) ([]attendance.MirrorRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.mirror[mirrorBucket(locationKey, day)]
	out := make([]attendance.MirrorRecord, 0, len(bucket))
	for _, m := range bucket {
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ClockInTime.Before(out[j].ClockInTime)
	})

	return out, nil
}

func (r *SubjectsRepo) applyMirrorLocked(m attendance.MirrorRecord) error {
	if r.MirrorFailures > 0 {
		r.MirrorFailures--
		return errors.New("mirror store unavailable")
	}

	key := mirrorBucket(m.LocationKey, m.Day)
	if r.mirror[key] == nil {
		r.mirror[key] = make(map[string]attendance.MirrorRecord)
	}
	r.mirror[key][m.SubjectID] = m
	return nil
}

func mirrorBucket(locationKey, day string) string {
	return locationKey + "/" + day
}
