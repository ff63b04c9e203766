package postgres

import (
	"context"
	"database/sql"
	"strings"

	"attendance-engine/internal/domain/schedule"
)

type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) Create(ctx context.Context, e schedule.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (
			id, title, category, starts_at, day, location_key,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.Title,
		string(e.Category),
		e.StartsAt,
		e.Day,
		e.LocationKey,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, p := range e.Participants {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO event_participants (
				event_id, subject_id, scheduled, attended, attended_at
			) VALUES ($1,$2,$3,$4,$5)
		`,
			e.ID,
			p.SubjectID,
			p.Scheduled,
			p.Attended,
			p.AttendedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id string) (schedule.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return schedule.Event{}, schedule.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, category, starts_at, day, location_key, created_at, updated_at
		FROM events
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if err != nil {
		return schedule.Event{}, err
	}

	participants, err := r.loadParticipants(ctx, e.ID)
	if err != nil {
		return schedule.Event{}, err
	}
	e.Participants = participants

	return e, nil
}

func (r *ScheduleRepo) ListByDay(ctx context.Context, day string, category schedule.Category) ([]schedule.Event, error) {
	query := `
		SELECT id, title, category, starts_at, day, location_key, created_at, updated_at
		FROM events
		WHERE day = $1
	`
	args := []any{day}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, string(category))
	}
	query += ` ORDER BY starts_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		participants, err := r.loadParticipants(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Participants = participants
	}

	return out, nil
}

func (r *ScheduleRepo) MarkAttendance(ctx context.Context, eventID, subjectID string, p schedule.Participant) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO event_participants (
			event_id, subject_id, scheduled, attended, attended_at
		) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (event_id, subject_id) DO UPDATE SET
			attended    = EXCLUDED.attended,
			attended_at = EXCLUDED.attended_at
	`,
		eventID,
		subjectID,
		p.Scheduled,
		p.Attended,
		p.AttendedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (schedule.Event, error) {
	var e schedule.Event
	var category string
	if err := row.Scan(
		&e.ID,
		&e.Title,
		&category,
		&e.StartsAt,
		&e.Day,
		&e.LocationKey,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return schedule.Event{}, schedule.ErrNotFound
		}
		return schedule.Event{}, err
	}
	e.Category = schedule.Category(category)
	return e, nil
}

func (r *ScheduleRepo) loadParticipants(ctx context.Context, eventID string) (map[string]schedule.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT subject_id, scheduled, attended, attended_at
		FROM event_participants
		WHERE event_id = $1
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]schedule.Participant)
	for rows.Next() {
		var p schedule.Participant
		if err := rows.Scan(&p.SubjectID, &p.Scheduled, &p.Attended, &p.AttendedAt); err != nil {
			return nil, err
		}
		out[p.SubjectID] = p
	}
	return out, rows.Err()
}
