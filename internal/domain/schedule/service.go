package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"attendance-engine/internal/platform/orgtime"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("event not found")
)

type Service struct {
	repo  Repository
	clock *orgtime.Authority
	now   func() time.Time
}

func NewService(repo Repository, clock *orgtime.Authority) *Service {
	return &Service{
		repo:  repo,
		clock: clock,
		now:   time.Now,
	}
}

type CreateInput struct {
	Title          string
	Category       string // libre; se normaliza
	StartsAt       time.Time
	LocationKey    string
	ParticipantIDs []string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Event{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Category) == "" {
		return Event{}, ErrInvalidInput
	}
	if in.StartsAt.IsZero() {
		return Event{}, ErrInvalidInput
	}

	now := s.now()

	participants := make(map[string]Participant, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		participants[id] = Participant{
			SubjectID: id,
			Scheduled: true,
		}
	}

	e := Event{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Category:     Normalize(in.Category),
		StartsAt:     in.StartsAt,
		Day:          s.clock.Day(in.StartsAt),
		LocationKey:  strings.TrimSpace(in.LocationKey),
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListByDay lista eventos de un día calendario, opcionalmente filtrados
// por categoría (string libre; se normaliza antes de comparar).
func (s *Service) ListByDay(ctx context.Context, day, rawCategory string) ([]Event, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return nil, ErrInvalidInput
	}
	var cat Category
	if strings.TrimSpace(rawCategory) != "" {
		cat = Normalize(rawCategory)
	}
	return s.repo.ListByDay(ctx, day, cat)
}

// MarkAttended setea attended=true + attendedAt en la entrada del
// participante. Idempotente: marcar dos veces conserva el primer instante.
func (s *Service) MarkAttended(ctx context.Context, eventID, subjectID string, at time.Time) (Event, error) {
	eventID = strings.TrimSpace(eventID)
	subjectID = strings.TrimSpace(subjectID)
	if eventID == "" || subjectID == "" {
		return Event{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return Event{}, err
	}

	p, ok := e.Participants[subjectID]
	if ok && p.Attended {
		return e, nil
	}
	if !ok {
		// No estaba agendado pero asistió igual: se registra como walk-in.
		p = Participant{SubjectID: subjectID}
	}
	p.Attended = true
	p.AttendedAt = &at

	if err := s.repo.MarkAttendance(ctx, eventID, subjectID, p); err != nil {
		return Event{}, err
	}
	return s.repo.GetByID(ctx, eventID)
}
