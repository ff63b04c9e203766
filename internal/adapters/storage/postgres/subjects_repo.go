package postgres

import (
	"context"
	"database/sql"
	"strings"

	"attendance-engine/internal/domain/attendance"
	"attendance-engine/internal/domain/schedule"
	"attendance-engine/internal/domain/subjects"
)

// SubjectsRepo implementa subjects.Repository y attendance.Repository.
// El Commit aplica el lado sujeto (patch + record + vínculo de evento)
// en una transacción con check optimista de versión; el espejo de
// locación se escribe después, fuera de la tx (best-effort, ver
// attendance.PartialWriteError).
type SubjectsRepo struct {
	db *sql.DB
}

func NewSubjectsRepo(db *sql.DB) *SubjectsRepo {
	return &SubjectsRepo{db: db}
}

func (r *SubjectsRepo) Create(ctx context.Context, s subjects.Subject) error {
	version := s.Version
	if version == 0 {
		version = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subjects (
			id, name,
			clocked_in, active_record_key,
			days_present, days_late, total_hours_worked,
			last_clock_in, last_clock_out,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		s.ID,
		s.Name,
		s.ClockedIn,
		s.ActiveRecordKey,
		s.DaysPresent,
		s.DaysLate,
		s.TotalHoursWorked,
		s.LastClockIn,
		s.LastClockOut,
		version,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *SubjectsRepo) GetByID(ctx context.Context, id string) (subjects.Subject, error) {
	s, err := r.getSubject(ctx, id)
	if err == attendance.ErrSubjectNotFound {
		return subjects.Subject{}, ErrNotFound
	}
	return s, err
}

func (r *SubjectsRepo) List(ctx context.Context) ([]subjects.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM subjects ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]subjects.Subject, 0, len(ids))
	for _, id := range ids {
		s, err := r.getSubject(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SubjectsRepo) GetSubject(ctx context.Context, id string) (subjects.Subject, error) {
	return r.getSubject(ctx, id)
}

func (r *SubjectsRepo) getSubject(ctx context.Context, id string) (subjects.Subject, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return subjects.Subject{}, attendance.ErrSubjectNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name,
			clocked_in, active_record_key,
			days_present, days_late, total_hours_worked,
			last_clock_in, last_clock_out,
			version, created_at, updated_at
		FROM subjects
		WHERE id = $1
	`, id)

	var s subjects.Subject
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.ClockedIn,
		&s.ActiveRecordKey,
		&s.DaysPresent,
		&s.DaysLate,
		&s.TotalHoursWorked,
		&s.LastClockIn,
		&s.LastClockOut,
		&s.Version,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return subjects.Subject{}, attendance.ErrSubjectNotFound
		}
		return subjects.Subject{}, err
	}

	records, err := r.loadRecords(ctx, id)
	if err != nil {
		return subjects.Subject{}, err
	}
	s.Records = records

	events, err := r.loadEventEntries(ctx, id)
	if err != nil {
		return subjects.Subject{}, err
	}
	s.Events = events

	return s, nil
}

func (r *SubjectsRepo) loadRecords(ctx context.Context, subjectID string) (map[string]subjects.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			record_key, status,
			clock_in_time, clock_out_time,
			is_late, location_key, event_category, hours_worked
		FROM attendance_records
		WHERE subject_id = $1
	`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]subjects.Record)
	for rows.Next() {
		var rec subjects.Record
		var status, category string
		if err := rows.Scan(
			&rec.Key,
			&status,
			&rec.ClockInTime,
			&rec.ClockOutTime,
			&rec.IsLate,
			&rec.LocationKey,
			&category,
			&rec.HoursWorked,
		); err != nil {
			return nil, err
		}
		rec.Status = subjects.RecordStatus(status)
		rec.EventCategory = schedule.Category(category)
		out[rec.Key] = rec
	}
	return out, rows.Err()
}

func (r *SubjectsRepo) loadEventEntries(ctx context.Context, subjectID string) (map[schedule.Category]map[string]subjects.EventEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, event_id, scheduled, attended, attended_at, event_date
		FROM subject_events
		WHERE subject_id = $1
	`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[schedule.Category]map[string]subjects.EventEntry)
	for rows.Next() {
		var cat string
		var e subjects.EventEntry
		if err := rows.Scan(&cat, &e.EventID, &e.Scheduled, &e.Attended, &e.AttendedAt, &e.Date); err != nil {
			return nil, err
		}
		c := schedule.Category(cat)
		if out[c] == nil {
			out[c] = make(map[string]subjects.EventEntry)
		}
		out[c][e.EventID] = e
	}
	return out, rows.Err()
}

func (r *SubjectsRepo) Commit(ctx context.Context, cs attendance.Changeset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	p := cs.Patch
	res, err := tx.ExecContext(ctx, `
		UPDATE subjects SET
			clocked_in         = COALESCE($3, clocked_in),
			active_record_key  = COALESCE($4, active_record_key),
			last_clock_in      = COALESCE($5, last_clock_in),
			last_clock_out     = COALESCE($6, last_clock_out),
			days_present       = days_present + $7,
			days_late          = days_late + $8,
			total_hours_worked = total_hours_worked + $9,
			version            = version + 1,
			updated_at         = now()
		WHERE id = $1 AND version = $2
	`,
		cs.SubjectID,
		cs.ExpectedVersion,
		p.ClockedIn,
		p.ActiveRecordKey,
		p.LastClockIn,
		p.LastClockOut,
		p.DaysPresentDelta,
		p.DaysLateDelta,
		p.HoursDelta,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguir "no existe" de "perdió la carrera de versión".
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM subjects WHERE id = $1)`, cs.SubjectID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return attendance.ErrSubjectNotFound
		}
		return attendance.ErrVersionConflict
	}

	if cs.Record != nil {
		rec := cs.Record
		_, err = tx.ExecContext(ctx, `
			INSERT INTO attendance_records (
				record_key, subject_id, day, status,
				clock_in_time, clock_out_time,
				is_late, location_key, event_category, hours_worked
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (record_key) DO UPDATE SET
				status         = EXCLUDED.status,
				clock_out_time = EXCLUDED.clock_out_time,
				hours_worked   = EXCLUDED.hours_worked
		`,
			rec.Key,
			cs.SubjectID,
			dayOfRecordKey(rec.Key),
			string(rec.Status),
			rec.ClockInTime,
			rec.ClockOutTime,
			rec.IsLate,
			rec.LocationKey,
			string(rec.EventCategory),
			rec.HoursWorked,
		)
		if err != nil {
			return err
		}
	}

	if cs.EventLink != nil {
		l := cs.EventLink
		_, err = tx.ExecContext(ctx, `
			INSERT INTO subject_events (
				subject_id, category, event_id,
				scheduled, attended, attended_at, event_date
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (subject_id, category, event_id) DO UPDATE SET
				attended    = EXCLUDED.attended,
				attended_at = EXCLUDED.attended_at
		`,
			cs.SubjectID,
			string(l.Category),
			l.EventID,
			l.Entry.Scheduled,
			l.Entry.Attended,
			l.Entry.AttendedAt,
			l.Entry.Date,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	// Espejo fuera de la tx: el lado sujeto ya está aplicado y no se
	// revierte aunque el espejo falle.
	if cs.Mirror != nil {
		if err := r.CommitMirror(ctx, *cs.Mirror); err != nil {
			return &attendance.PartialWriteError{Err: err}
		}
	}
	return nil
}

func (r *SubjectsRepo) CommitMirror(ctx context.Context, m attendance.MirrorRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO location_mirror (
			location_key, day, subject_id, subject_name,
			record_key, status,
			clock_in_time, clock_out_time,
			is_late, hours_worked
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (location_key, day, subject_id) DO UPDATE SET
			subject_name   = EXCLUDED.subject_name,
			record_key     = EXCLUDED.record_key,
			status         = EXCLUDED.status,
			clock_in_time  = EXCLUDED.clock_in_time,
			clock_out_time = EXCLUDED.clock_out_time,
			is_late        = EXCLUDED.is_late,
			hours_worked   = EXCLUDED.hours_worked
	`,
		m.LocationKey,
		m.Day,
		m.SubjectID,
		m.SubjectName,
		m.RecordKey,
		string(m.Status),
		m.ClockInTime,
		m.ClockOutTime,
		m.IsLate,
		m.HoursWorked,
	)
	return err
}

func (r *SubjectsRepo) ListMirror(ctx context.Context, locationKey, day string) ([]attendance.MirrorRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			location_key, day, subject_id, subject_name,
			record_key, status,
			clock_in_time, clock_out_time,
			is_late, hours_worked
		FROM location_mirror
		WHERE location_key = $1 AND day = $2
		ORDER BY clock_in_time ASC
	`, locationKey, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]attendance.MirrorRecord, 0)
	for rows.Next() {
		var m attendance.MirrorRecord
		var status string
		if err := rows.Scan(
			&m.LocationKey,
			&m.Day,
			&m.SubjectID,
			&m.SubjectName,
			&m.RecordKey,
			&status,
			&m.ClockInTime,
			&m.ClockOutTime,
			&m.IsLate,
			&m.HoursWorked,
		); err != nil {
			return nil, err
		}
		m.Status = subjects.RecordStatus(status)
		out = append(out, m)
	}
	return out, rows.Err()
}

// dayOfRecordKey: prefijo de día de una key {día}_{milis}_{sufijo}.
func dayOfRecordKey(key string) string {
	day, _, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return day
}
