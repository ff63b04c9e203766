package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"attendance-engine/internal/domain/schedule"
	"attendance-engine/internal/domain/subjects"
	"attendance-engine/internal/platform/bus"
	"attendance-engine/internal/platform/cache"
	"attendance-engine/internal/platform/logger"
	"attendance-engine/internal/platform/orgtime"
)

// Service son los procesadores de clock-in/clock-out y el marcado de
// asistencia a eventos. Cada operación es request/result: lee el sujeto
// (vía cache), decide qué escribir, commitea el batch por el
// synchronizer, invalida cache y publica en el bus. Nada de estado
// optimista: si el commit falla, el último estado commiteado sigue
// siendo el visible.
type Service struct {
	repo  Repository
	sched *schedule.Service
	clock *orgtime.Authority
	cache *cache.TTL[subjects.Subject]
	bus   *bus.Bus
	log   logger.Logger
	sync  *synchronizer
}

func NewService(
	repo Repository,
	sched *schedule.Service,
	clock *orgtime.Authority,
	c *cache.TTL[subjects.Subject],
	b *bus.Bus,
	log logger.Logger,
) *Service {
	return &Service{
		repo:  repo,
		sched: sched,
		clock: clock,
		cache: c,
		bus:   b,
		log:   log,
		sync:  &synchronizer{repo: repo, log: log},
	}
}

// ClockIn registra la entrada de un sujeto en una locación, opcionalmente
// ligada a una categoría de evento agendado.
func (s *Service) ClockIn(ctx context.Context, subjectID, locationKey, rawCategory string) (ClockInResult, error) {
	subjectID = strings.TrimSpace(subjectID)
	locationKey = strings.TrimSpace(locationKey)
	if subjectID == "" || locationKey == "" {
		return ClockInResult{}, ErrInvalidInput
	}

	for attempt := 0; ; attempt++ {
		subj, err := s.getSubject(ctx, subjectID)
		if err != nil {
			return ClockInResult{}, err
		}

		st := s.clock.Now()
		key := newClockInKey(st.Day, st.Instant)

		rec := subjects.Record{
			Key:         key,
			Status:      subjects.StatusClockedIn,
			ClockInTime: st.Instant,
			IsLate:      st.Late,
			LocationKey: locationKey,
		}

		clockedIn := true
		instant := st.Instant
		patch := SubjectPatch{
			ClockedIn:       &clockedIn,
			ActiveRecordKey: &key,
			LastClockIn:     &instant,
		}

		// Guard de idempotencia: los contadores diarios suben solo si hoy
		// todavía no hay registro (un re-escaneo crea otro record, no infla).
		counted := !hasRecordForDay(subj, st.Day)
		if counted {
			patch.DaysPresentDelta = 1
			if st.Late {
				patch.DaysLateDelta = 1
			}
		}

		var link *EventLink
		var linkedEventID string
		if raw := strings.TrimSpace(rawCategory); raw != "" {
			cat := schedule.Normalize(raw)
			rec.EventCategory = cat
			if ev, ok := s.findEventForScan(ctx, st.Day, cat, locationKey); ok {
				linkedEventID = ev.ID
				attendedAt := st.Instant
				link = &EventLink{
					Category: cat,
					EventID:  ev.ID,
					Entry: subjects.EventEntry{
						EventID:    ev.ID,
						Scheduled:  ev.Participants[subjectID].Scheduled,
						Attended:   true,
						AttendedAt: &attendedAt,
						Date:       st.Day,
					},
				}
			}
		}

		cs := Changeset{
			SubjectID:       subjectID,
			ExpectedVersion: subj.Version,
			Patch:           patch,
			Record:          &rec,
			EventLink:       link,
			Mirror: &MirrorRecord{
				LocationKey: locationKey,
				Day:         st.Day,
				SubjectID:   subjectID,
				SubjectName: subj.Name,
				RecordKey:   key,
				Status:      subjects.StatusClockedIn,
				ClockInTime: st.Instant,
				IsLate:      st.Late,
			},
		}

		if err := s.sync.commit(ctx, cs); err != nil {
			if errors.Is(err, ErrVersionConflict) && attempt == 0 {
				s.cache.Invalidate(subjectID)
				continue
			}
			return ClockInResult{}, fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}

		if linkedEventID != "" {
			if _, err := s.sched.MarkAttended(ctx, linkedEventID, subjectID, st.Instant); err != nil {
				s.log.Warn("event participant entry not updated", map[string]any{
					"subject_id": subjectID,
					"event_id":   linkedEventID,
					"cause":      err,
				})
			}
		}

		s.cache.Invalidate(subjectID)

		change := Change{
			Kind:        "clock-in",
			SubjectID:   subjectID,
			RecordKey:   key,
			Day:         st.Day,
			LocationKey: locationKey,
			EventID:     linkedEventID,
		}
		s.bus.Publish(bus.TopicAttendanceUpdated, change)
		s.bus.Publish(bus.TopicSubjectUpdated, change)
		s.bus.Publish(bus.TopicLocationDashboard, change)
		if linkedEventID != "" {
			s.bus.Publish(bus.TopicEventUpdated, change)
		}

		fresh, err := s.getSubject(ctx, subjectID)
		if err != nil {
			fresh = subj
		}
		return ClockInResult{
			Record:        rec,
			Subject:       fresh,
			CountedForDay: counted,
			LinkedEventID: linkedEventID,
		}, nil
	}
}

// ClockOut cierra el registro abierto más reciente de hoy. Si no hay
// registro pero el live status dice que el sujeto está adentro, se
// reconstruye el intervalo desde lastClockIn (cierre degradado,
// status clock-out-only) y se loguea la inconsistencia recuperada.
func (s *Service) ClockOut(ctx context.Context, subjectID, locationKey string) (ClockOutResult, error) {
	subjectID = strings.TrimSpace(subjectID)
	locationKey = strings.TrimSpace(locationKey)
	if subjectID == "" || locationKey == "" {
		return ClockOutResult{}, ErrInvalidInput
	}

	for attempt := 0; ; attempt++ {
		subj, err := s.getSubject(ctx, subjectID)
		if err != nil {
			return ClockOutResult{}, err
		}

		st := s.clock.Now()

		rec, found := openRecordForDay(subj, st.Day)
		recovered := false
		var hours float64

		switch {
		case found:
			hours = st.Instant.Sub(rec.ClockInTime).Hours()
			rec.Status = subjects.StatusCompleted
			out := st.Instant
			rec.ClockOutTime = &out
			rec.HoursWorked = &hours

		case subj.ClockedIn && subj.LastClockIn != nil && s.clock.Day(*subj.LastClockIn) == st.Day:
			// Inconsistencia recuperada: el live status dice adentro pero no
			// hay registro abierto. Se crea un registro standalone.
			recovered = true
			hours = st.Instant.Sub(*subj.LastClockIn).Hours()
			out := st.Instant
			rec = subjects.Record{
				Key:          newClockOutOnlyKey(st.Day, st.Instant),
				Status:       subjects.StatusClockOutOnly,
				ClockInTime:  *subj.LastClockIn,
				ClockOutTime: &out,
				LocationKey:  locationKey,
				HoursWorked:  &hours,
			}
			s.log.Warn("clock-out recovered from live status, no open record found", map[string]any{
				"subject_id": subjectID,
				"day":        st.Day,
				"record_key": rec.Key,
			})

		default:
			return ClockOutResult{}, ErrNoActiveSession
		}

		clockedIn := false
		empty := ""
		instant := st.Instant
		cs := Changeset{
			SubjectID:       subjectID,
			ExpectedVersion: subj.Version,
			Patch: SubjectPatch{
				ClockedIn:       &clockedIn,
				ActiveRecordKey: &empty,
				LastClockOut:    &instant,
				HoursDelta:      hours,
			},
			Record: &rec,
			Mirror: &MirrorRecord{
				LocationKey:  locationKey,
				Day:          st.Day,
				SubjectID:    subjectID,
				SubjectName:  subj.Name,
				RecordKey:    rec.Key,
				Status:       rec.Status,
				ClockInTime:  rec.ClockInTime,
				ClockOutTime: rec.ClockOutTime,
				IsLate:       rec.IsLate,
				HoursWorked:  rec.HoursWorked,
			},
		}

		if err := s.sync.commit(ctx, cs); err != nil {
			if errors.Is(err, ErrVersionConflict) && attempt == 0 {
				s.cache.Invalidate(subjectID)
				continue
			}
			return ClockOutResult{}, fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}

		s.cache.Invalidate(subjectID)

		change := Change{
			Kind:        "clock-out",
			SubjectID:   subjectID,
			RecordKey:   rec.Key,
			Day:         st.Day,
			LocationKey: locationKey,
		}
		s.bus.Publish(bus.TopicAttendanceUpdated, change)
		s.bus.Publish(bus.TopicSubjectUpdated, change)
		s.bus.Publish(bus.TopicLocationDashboard, change)

		fresh, err := s.getSubject(ctx, subjectID)
		if err != nil {
			fresh = subj
		}
		return ClockOutResult{
			Record:      rec,
			Subject:     fresh,
			HoursWorked: hours,
			Recovered:   recovered,
		}, nil
	}
}

// MarkEventAttendance liga la asistencia de un sujeto a un evento
// agendado: attended=true en la copia del sujeto Y en la lista de
// participantes del evento.
func (s *Service) MarkEventAttendance(ctx context.Context, subjectID, eventID, rawCategory, locationKey string) (MarkResult, error) {
	subjectID = strings.TrimSpace(subjectID)
	eventID = strings.TrimSpace(eventID)
	if subjectID == "" || eventID == "" || strings.TrimSpace(rawCategory) == "" {
		return MarkResult{}, ErrInvalidInput
	}
	_ = locationKey // la locación no participa del vínculo; queda en la firma pública

	cat := schedule.Normalize(rawCategory)

	ev, err := s.sched.GetByID(ctx, eventID)
	if err != nil {
		return MarkResult{}, err
	}

	for attempt := 0; ; attempt++ {
		subj, err := s.getSubject(ctx, subjectID)
		if err != nil {
			return MarkResult{}, err
		}

		st := s.clock.Now()
		attendedAt := st.Instant

		cs := Changeset{
			SubjectID:       subjectID,
			ExpectedVersion: subj.Version,
			EventLink: &EventLink{
				Category: cat,
				EventID:  ev.ID,
				Entry: subjects.EventEntry{
					EventID:    ev.ID,
					Scheduled:  ev.Participants[subjectID].Scheduled,
					Attended:   true,
					AttendedAt: &attendedAt,
					Date:       s.clock.Day(ev.StartsAt),
				},
			},
		}

		if err := s.sync.commit(ctx, cs); err != nil {
			if errors.Is(err, ErrVersionConflict) && attempt == 0 {
				s.cache.Invalidate(subjectID)
				continue
			}
			return MarkResult{}, fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}

		updated, err := s.sched.MarkAttended(ctx, ev.ID, subjectID, st.Instant)
		if err != nil {
			s.log.Warn("event participant entry not updated", map[string]any{
				"subject_id": subjectID,
				"event_id":   ev.ID,
				"cause":      err,
			})
			updated = ev
		}

		s.cache.Invalidate(subjectID)

		change := Change{
			Kind:      "event-attendance",
			SubjectID: subjectID,
			Day:       s.clock.Day(ev.StartsAt),
			EventID:   ev.ID,
		}
		s.bus.Publish(bus.TopicEventUpdated, change)
		s.bus.Publish(bus.TopicSubjectUpdated, change)

		fresh, err := s.getSubject(ctx, subjectID)
		if err != nil {
			fresh = subj
		}
		return MarkResult{Subject: fresh, Event: updated, Category: cat}, nil
	}
}

// LocationDay es la lectura del dashboard por locación (vista espejo).
func (s *Service) LocationDay(ctx context.Context, locationKey, day string) ([]MirrorRecord, error) {
	locationKey = strings.TrimSpace(locationKey)
	day = strings.TrimSpace(day)
	if locationKey == "" || day == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListMirror(ctx, locationKey, day)
}

// getSubject es la lectura read-through: cache primero, store después.
func (s *Service) getSubject(ctx context.Context, id string) (subjects.Subject, error) {
	if subj, ok := s.cache.Get(id); ok {
		return subj, nil
	}
	subj, err := s.repo.GetSubject(ctx, id)
	if err != nil {
		return subjects.Subject{}, err
	}
	s.cache.Set(id, subj)
	return subj, nil
}

// hasRecordForDay: guard de idempotencia de contadores diarios.
// Lectura pura sobre los registros existentes del sujeto.
func hasRecordForDay(subj subjects.Subject, day string) bool {
	for key := range subj.Records {
		if dayOfKey(key) == day {
			return true
		}
	}
	return false
}

// openRecordForDay busca el registro abierto con mayor clockInTime entre
// los de hoy. Como el clock-out siempre cierra el más reciente, nunca
// queda más de un intervalo abierto por sujeto por día.
func openRecordForDay(subj subjects.Subject, day string) (subjects.Record, bool) {
	var best subjects.Record
	found := false
	for key, rec := range subj.Records {
		if rec.Status != subjects.StatusClockedIn {
			continue
		}
		if dayOfKey(key) != day {
			continue
		}
		if !found || rec.ClockInTime.After(best.ClockInTime) {
			best = rec
			found = true
		}
	}
	return best, found
}

// findEventForScan busca el evento agendado de hoy que matchea categoría
// (y locación, si el evento la declara). Best-effort: si no hay evento,
// el record igual guarda la categoría.
func (s *Service) findEventForScan(ctx context.Context, day string, cat schedule.Category, locationKey string) (schedule.Event, bool) {
	evs, err := s.sched.ListByDay(ctx, day, string(cat))
	if err != nil || len(evs) == 0 {
		return schedule.Event{}, false
	}
	for _, ev := range evs {
		if ev.LocationKey == "" || ev.LocationKey == locationKey {
			return ev, true
		}
	}
	return schedule.Event{}, false
}
