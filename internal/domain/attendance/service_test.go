package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"attendance-engine/internal/domain/schedule"
	"attendance-engine/internal/domain/subjects"
	"attendance-engine/internal/platform/bus"
	"attendance-engine/internal/platform/cache"
	"attendance-engine/internal/platform/logger"
	"attendance-engine/internal/platform/orgtime"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	byID   map[string]subjects.Subject
	mirror map[string]MirrorRecord // locación/día/sujeto

	versionConflicts int // fuerza N conflictos de versión
	failCommits      int // fuerza N fallas duras de commit
	mirrorFailures   int // fuerza N fallas del write del espejo
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:   map[string]subjects.Subject{},
		mirror: map[string]MirrorRecord{},
	}
}

func (r *testRepo) seed(s subjects.Subject) {
	if s.Records == nil {
		s.Records = map[string]subjects.Record{}
	}
	if s.Version == 0 {
		s.Version = 1
	}
	r.byID[s.ID] = s
}

func (r *testRepo) GetSubject(ctx context.Context, id string) (subjects.Subject, error) {
	s, ok := r.byID[id]
	if !ok {
		return subjects.Subject{}, ErrSubjectNotFound
	}
	return s.Clone(), nil
}

func (r *testRepo) Commit(ctx context.Context, cs Changeset) error {
	if r.failCommits > 0 {
		r.failCommits--
		return errors.New("repo: store unavailable")
	}
	if r.versionConflicts > 0 {
		r.versionConflicts--
		return ErrVersionConflict
	}

	s, ok := r.byID[cs.SubjectID]
	if !ok {
		return ErrSubjectNotFound
	}
	if s.Version != cs.ExpectedVersion {
		return ErrVersionConflict
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
		s.Records[cs.Record.Key] = *cs.Record
	}
	if cs.EventLink != nil {
		if s.Events == nil {
			s.Events = map[schedule.Category]map[string]subjects.EventEntry{}
		}
		if s.Events[cs.EventLink.Category] == nil {
			s.Events[cs.EventLink.Category] = map[string]subjects.EventEntry{}
		}
		s.Events[cs.EventLink.Category][cs.EventLink.EventID] = cs.EventLink.Entry
	}

	s.Version++
	r.byID[cs.SubjectID] = s

	if cs.Mirror != nil {
		if r.mirrorFailures > 0 {
			r.mirrorFailures--
			return &PartialWriteError{Err: errors.New("repo: mirror unavailable")}
		}
		r.mirror[mirrorKey(*cs.Mirror)] = *cs.Mirror
	}
	return nil
}

func (r *testRepo) CommitMirror(ctx context.Context, m MirrorRecord) error {
	if r.mirrorFailures > 0 {
		r.mirrorFailures--
		return errors.New("repo: mirror unavailable")
	}
	r.mirror[mirrorKey(m)] = m
	return nil
}

func (r *testRepo) ListMirror(ctx context.Context, locationKey, day string) ([]MirrorRecord, error) {
	out := make([]MirrorRecord, 0)
	for _, m := range r.mirror {
		if m.LocationKey == locationKey && m.Day == day {
			out = append(out, m)
		}
	}
	return out, nil
}

func mirrorKey(m MirrorRecord) string {
	return m.LocationKey + "/" + m.Day + "/" + m.SubjectID
}

type testScheduleRepo struct {
	byID map[string]schedule.Event
}

func newTestScheduleRepo() *testScheduleRepo {
	return &testScheduleRepo{byID: map[string]schedule.Event{}}
}

func (r *testScheduleRepo) Create(ctx context.Context, e schedule.Event) error {
	r.byID[e.ID] = e
	return nil
}

func (r *testScheduleRepo) GetByID(ctx context.Context, id string) (schedule.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return schedule.Event{}, schedule.ErrNotFound
	}
	return e, nil
}

func (r *testScheduleRepo) ListByDay(ctx context.Context, day string, category schedule.Category) ([]schedule.Event, error) {
	out := make([]schedule.Event, 0)
	for _, e := range r.byID {
		if e.Day != day {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *testScheduleRepo) MarkAttendance(ctx context.Context, eventID, subjectID string, p schedule.Participant) error {
	e, ok := r.byID[eventID]
	if !ok {
		return schedule.ErrNotFound
	}
	if e.Participants == nil {
		e.Participants = map[string]schedule.Participant{}
	}
	e.Participants[subjectID] = p
	r.byID[eventID] = e
	return nil
}

// -------------------------
// Harness
// -------------------------

type testEnv struct {
	svc       *Service
	repo      *testRepo
	schedRepo *testScheduleRepo
	clock     *orgtime.Authority
	cache     *cache.TTL[subjects.Subject]
	bus       *bus.Bus
	loc       *time.Location
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock, err := orgtime.New(orgtime.Options{})
	if err != nil {
		t.Fatalf("orgtime.New error: %v", err)
	}
	loc, err := time.LoadLocation(orgtime.DefaultTimezone)
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	log := logger.New(logger.Options{Level: logger.Error})
	repo := newTestRepo()
	schedRepo := newTestScheduleRepo()
	c := cache.New[subjects.Subject](time.Minute)
	b := bus.New(log)

	return &testEnv{
		svc:       NewService(repo, schedule.NewService(schedRepo, clock), clock, c, b, log),
		repo:      repo,
		schedRepo: schedRepo,
		clock:     clock,
		cache:     c,
		bus:       b,
		loc:       loc,
	}
}

func (e *testEnv) at(t time.Time) {
	e.clock.SetNow(func() time.Time { return t })
}

func (e *testEnv) day(t *testing.T) time.Time {
	t.Helper()
	// Lunes 2 de marzo de 2026, un día cualquiera sin DST de por medio.
	return time.Date(2026, 3, 2, 0, 0, 0, 0, e.loc)
}

// -------------------------
// Tests
// -------------------------

func TestClockIn_FirstOfDay_AtCutoffExactly(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.at(env.day(t).Add(9 * time.Hour)) // 09:00:00 exacto

	res, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}

	if res.Record.Status != subjects.StatusClockedIn {
		t.Fatalf("expected status clocked-in, got %s", res.Record.Status)
	}
	if res.Record.IsLate {
		t.Fatalf("clock-in at exactly the cutoff must not be late")
	}
	if !res.CountedForDay {
		t.Fatalf("first clock-in of the day must count")
	}
	if res.Subject.DaysPresent != 1 || res.Subject.DaysLate != 0 {
		t.Fatalf("expected daysPresent=1 daysLate=0, got %d/%d", res.Subject.DaysPresent, res.Subject.DaysLate)
	}
	if !res.Subject.ClockedIn {
		t.Fatalf("expected subject clocked in")
	}
	if res.Subject.ActiveRecordKey != res.Record.Key {
		t.Fatalf("expected activeRecordKey to point at the new record")
	}

	// Espejo escrito en el mismo batch
	mirrors, _ := env.repo.ListMirror(context.Background(), "hq", "2026-03-02")
	if len(mirrors) != 1 || mirrors[0].SubjectID != "s1" {
		t.Fatalf("expected 1 mirror record for hq/2026-03-02, got %#v", mirrors)
	}
}

func TestClockIn_OneMicrosecondAfterCutoff_IsLate(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.at(env.day(t).Add(9*time.Hour + time.Microsecond))

	res, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	if !res.Record.IsLate {
		t.Fatalf("one microsecond after the cutoff must be late")
	}
	if res.Subject.DaysLate != 1 {
		t.Fatalf("expected daysLate=1, got %d", res.Subject.DaysLate)
	}
}

func TestClockIn_DuplicateScan_CreatesSecondRecordWithoutDoubleCount(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})

	env.at(env.day(t).Add(9 * time.Hour))
	first, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if err != nil {
		t.Fatalf("ClockIn #1 error: %v", err)
	}

	env.at(env.day(t).Add(9*time.Hour + 5*time.Minute))
	second, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if err != nil {
		t.Fatalf("ClockIn #2 error: %v", err)
	}

	if first.Record.Key == second.Record.Key {
		t.Fatalf("duplicate scan must create a distinct record, both got key %s", first.Record.Key)
	}
	if second.CountedForDay {
		t.Fatalf("second scan of the day must not count")
	}
	if second.Subject.DaysPresent != 1 {
		t.Fatalf("daysPresent must stay 1 after duplicate scan, got %d", second.Subject.DaysPresent)
	}
	if len(second.Subject.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(second.Subject.Records))
	}
}

func TestClockOut_ClosesOpenRecordAndAccumulatesHours(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})

	env.at(env.day(t).Add(9 * time.Hour))
	in, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}

	env.at(env.day(t).Add(17 * time.Hour))
	out, err := env.svc.ClockOut(context.Background(), "s1", "hq")
	if err != nil {
		t.Fatalf("ClockOut error: %v", err)
	}

	if out.Record.Key != in.Record.Key {
		t.Fatalf("clock-out must close the record opened at clock-in")
	}
	if out.Record.Status != subjects.StatusCompleted {
		t.Fatalf("expected status completed, got %s", out.Record.Status)
	}
	if out.HoursWorked != 8.0 {
		t.Fatalf("expected 8.0 hours, got %v", out.HoursWorked)
	}
	if out.Subject.TotalHoursWorked != 8.0 {
		t.Fatalf("expected totalHoursWorked 8.0, got %v", out.Subject.TotalHoursWorked)
	}
	if out.Subject.ClockedIn {
		t.Fatalf("expected subject clocked out")
	}
	if out.Subject.ActiveRecordKey != "" {
		t.Fatalf("expected activeRecordKey cleared, got %q", out.Subject.ActiveRecordKey)
	}
	if out.Recovered {
		t.Fatalf("normal close must not report recovery")
	}
}

func TestClockOut_TargetsMostRecentOpenRecord_NeverTwoOpen(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	ctx := context.Background()

	// in 09:00 -> out 12:00 -> in 13:00 -> out 17:00
	env.at(env.day(t).Add(9 * time.Hour))
	if _, err := env.svc.ClockIn(ctx, "s1", "hq", ""); err != nil {
		t.Fatalf("ClockIn #1 error: %v", err)
	}
	env.at(env.day(t).Add(12 * time.Hour))
	if _, err := env.svc.ClockOut(ctx, "s1", "hq"); err != nil {
		t.Fatalf("ClockOut #1 error: %v", err)
	}
	env.at(env.day(t).Add(13 * time.Hour))
	second, err := env.svc.ClockIn(ctx, "s1", "hq", "")
	if err != nil {
		t.Fatalf("ClockIn #2 error: %v", err)
	}
	if second.CountedForDay {
		t.Fatalf("re-entry same day must not count again")
	}

	// Invariante: nunca más de un registro abierto por día
	open := 0
	for _, rec := range second.Subject.Records {
		if rec.Status == subjects.StatusClockedIn {
			open++
		}
	}
	if open != 1 {
		t.Fatalf("expected exactly 1 open record, got %d", open)
	}

	env.at(env.day(t).Add(17 * time.Hour))
	out, err := env.svc.ClockOut(ctx, "s1", "hq")
	if err != nil {
		t.Fatalf("ClockOut #2 error: %v", err)
	}
	if out.Record.Key != second.Record.Key {
		t.Fatalf("clock-out must target the most recent open record")
	}
	if out.HoursWorked != 4.0 {
		t.Fatalf("expected 4.0 hours for afternoon interval, got %v", out.HoursWorked)
	}
	// 3h de la mañana + 4h de la tarde
	if out.Subject.TotalHoursWorked != 7.0 {
		t.Fatalf("expected 7.0 total hours, got %v", out.Subject.TotalHoursWorked)
	}

	for _, rec := range out.Subject.Records {
		if rec.Status == subjects.StatusClockedIn {
			t.Fatalf("no record may remain open after final clock-out")
		}
	}
}

func TestClockOut_NoActiveSession(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s2", Name: "Beto"})
	env.at(env.day(t).Add(17 * time.Hour))

	_, err := env.svc.ClockOut(context.Background(), "s2", "hq")
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}

	s := env.repo.byID["s2"]
	if len(s.Records) != 0 || s.TotalHoursWorked != 0 || s.LastClockOut != nil {
		t.Fatalf("failed clock-out must not mutate the subject")
	}
}

func TestClockOut_RecoversFromLiveStatus(t *testing.T) {
	env := newTestEnv(t)
	lastIn := env.day(t).Add(9 * time.Hour)
	env.repo.seed(subjects.Subject{
		ID:          "s1",
		Name:        "Ana",
		ClockedIn:   true,
		LastClockIn: &lastIn,
		// Sin registro abierto: inconsistencia que el clock-out recupera.
	})
	env.at(env.day(t).Add(17 * time.Hour))

	out, err := env.svc.ClockOut(context.Background(), "s1", "hq")
	if err != nil {
		t.Fatalf("ClockOut error: %v", err)
	}

	if !out.Recovered {
		t.Fatalf("expected degraded recovery")
	}
	if out.Record.Status != subjects.StatusClockOutOnly {
		t.Fatalf("expected clock-out-only record, got %s", out.Record.Status)
	}
	if out.HoursWorked != 8.0 {
		t.Fatalf("expected 8.0 hours from lastClockIn fallback, got %v", out.HoursWorked)
	}
	if out.Subject.ClockedIn {
		t.Fatalf("expected subject clocked out after recovery")
	}
}

func TestClockOut_LiveStatusFromAnotherDay_IsNotAFallback(t *testing.T) {
	env := newTestEnv(t)
	yesterday := env.day(t).Add(-24 * time.Hour).Add(9 * time.Hour)
	env.repo.seed(subjects.Subject{
		ID:          "s1",
		Name:        "Ana",
		ClockedIn:   true,
		LastClockIn: &yesterday,
	})
	env.at(env.day(t).Add(17 * time.Hour))

	_, err := env.svc.ClockOut(context.Background(), "s1", "hq")
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession for stale live status, got %v", err)
	}
}

func TestClockIn_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.svc.ClockIn(context.Background(), "", "hq", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty subject, got %v", err)
	}
	if _, err := env.svc.ClockIn(context.Background(), "s1", "  ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty location, got %v", err)
	}
}

func TestClockIn_SubjectNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.at(env.day(t).Add(10 * time.Hour))

	_, err := env.svc.ClockIn(context.Background(), "ghost", "hq", "")
	if !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestClockIn_RetriesOnceOnVersionConflict(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.repo.versionConflicts = 1
	env.at(env.day(t).Add(10 * time.Hour))

	res, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if res.Subject.DaysPresent != 1 {
		t.Fatalf("expected daysPresent=1 after retry, got %d", res.Subject.DaysPresent)
	}
}

func TestClockIn_SecondVersionConflictSurfaces(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.repo.versionConflicts = 2
	env.at(env.day(t).Add(10 * time.Hour))

	_, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite after second conflict, got %v", err)
	}
}

func TestClockIn_HardCommitFailure_KeepsCacheAndState(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.repo.failCommits = 1
	env.at(env.day(t).Add(10 * time.Hour))

	_, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite, got %v", err)
	}

	// Sin mutación local optimista
	s := env.repo.byID["s1"]
	if s.ClockedIn || s.DaysPresent != 0 || len(s.Records) != 0 {
		t.Fatalf("failed commit must leave subject untouched: %#v", s)
	}

	// El cache NO se invalida en falla dura: sigue la versión stale-but-consistent.
	if _, ok := env.cache.Get("s1"); !ok {
		t.Fatalf("cache must keep last consistent subject after hard failure")
	}
}

func TestClockIn_PartialMirrorFailure_RetriesMirrorAndSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.repo.mirrorFailures = 1 // falla el espejo en el batch, el retry pega
	env.at(env.day(t).Add(10 * time.Hour))

	res, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if err != nil {
		t.Fatalf("partial mirror failure must not fail the operation: %v", err)
	}
	if res.Subject.DaysPresent != 1 {
		t.Fatalf("subject write must be applied, got daysPresent=%d", res.Subject.DaysPresent)
	}

	mirrors, _ := env.repo.ListMirror(context.Background(), "hq", "2026-03-02")
	if len(mirrors) != 1 {
		t.Fatalf("expected mirror recovered by retry, got %d records", len(mirrors))
	}
}

func TestClockIn_MirrorDivergence_StillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.repo.mirrorFailures = 2 // batch y retry fallan: divergencia logueada
	env.at(env.day(t).Add(10 * time.Hour))

	res, err := env.svc.ClockIn(context.Background(), "s1", "hq", "")
	if err != nil {
		t.Fatalf("mirror divergence must not fail the operation: %v", err)
	}
	if !res.Subject.ClockedIn {
		t.Fatalf("authoritative subject write must stand")
	}

	mirrors, _ := env.repo.ListMirror(context.Background(), "hq", "2026-03-02")
	if len(mirrors) != 0 {
		t.Fatalf("mirror must be divergent (empty), got %d records", len(mirrors))
	}
}

func TestClockIn_PublishesNotifications(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.at(env.day(t).Add(10 * time.Hour))

	got := map[string]int{}
	for _, topic := range []string{
		bus.TopicAttendanceUpdated, bus.TopicSubjectUpdated, bus.TopicLocationDashboard,
	} {
		tp := topic
		env.bus.Subscribe(tp, func(p any) {
			ch, ok := p.(Change)
			if !ok || ch.SubjectID != "s1" {
				t.Errorf("unexpected payload on %s: %#v", tp, p)
			}
			got[tp]++
		})
	}

	if _, err := env.svc.ClockIn(context.Background(), "s1", "hq", ""); err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}

	for _, topic := range []string{
		bus.TopicAttendanceUpdated, bus.TopicSubjectUpdated, bus.TopicLocationDashboard,
	} {
		if got[topic] != 1 {
			t.Fatalf("expected 1 notification on %s, got %d", topic, got[topic])
		}
	}
}

func TestClockIn_WithCategory_LinksScheduledEvent(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.schedRepo.byID["ev1"] = schedule.Event{
		ID:       "ev1",
		Title:    "Taller mensual",
		Category: schedule.CategoryWorkshops,
		Day:      "2026-03-02",
		Participants: map[string]schedule.Participant{
			"s1": {SubjectID: "s1", Scheduled: true},
		},
	}
	env.at(env.day(t).Add(10 * time.Hour))

	res, err := env.svc.ClockIn(context.Background(), "s1", "hq", "workshop")
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}

	if res.LinkedEventID != "ev1" {
		t.Fatalf("expected link to ev1, got %q", res.LinkedEventID)
	}
	if res.Record.EventCategory != schedule.CategoryWorkshops {
		t.Fatalf("expected record category workshops, got %q", res.Record.EventCategory)
	}

	entry, ok := res.Subject.Events[schedule.CategoryWorkshops]["ev1"]
	if !ok || !entry.Attended || !entry.Scheduled {
		t.Fatalf("expected attended+scheduled subject entry, got %#v", entry)
	}

	p := env.schedRepo.byID["ev1"].Participants["s1"]
	if !p.Attended || p.AttendedAt == nil {
		t.Fatalf("expected event participant marked attended, got %#v", p)
	}
}

func TestMarkEventAttendance_NormalizesAndLinksBothSides(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	starts := env.day(t).Add(18 * time.Hour)
	env.schedRepo.byID["ev1"] = schedule.Event{
		ID:       "ev1",
		Title:    "Taller mensual",
		Category: schedule.CategoryWorkshops,
		StartsAt: starts,
		Day:      "2026-03-02",
		Participants: map[string]schedule.Participant{
			"s1": {SubjectID: "s1", Scheduled: true},
		},
	}
	env.at(starts.Add(5 * time.Minute))

	res, err := env.svc.MarkEventAttendance(context.Background(), "s1", "ev1", "workshop", "hq")
	if err != nil {
		t.Fatalf("MarkEventAttendance error: %v", err)
	}

	if res.Category != schedule.CategoryWorkshops {
		t.Fatalf("expected canonical category workshops, got %q", res.Category)
	}

	entry, ok := res.Subject.Events[schedule.CategoryWorkshops]["ev1"]
	if !ok || !entry.Attended || entry.AttendedAt == nil || entry.Date != "2026-03-02" {
		t.Fatalf("expected subject-side entry attended on 2026-03-02, got %#v", entry)
	}

	p := res.Event.Participants["s1"]
	if !p.Attended || p.AttendedAt == nil {
		t.Fatalf("expected event-side participant attended, got %#v", p)
	}
}

func TestMarkEventAttendance_UnknownEvent(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(subjects.Subject{ID: "s1", Name: "Ana"})
	env.at(env.day(t).Add(10 * time.Hour))

	_, err := env.svc.MarkEventAttendance(context.Background(), "s1", "ghost", "workshop", "hq")
	if !errors.Is(err, schedule.ErrNotFound) {
		t.Fatalf("expected schedule.ErrNotFound, got %v", err)
	}
}
