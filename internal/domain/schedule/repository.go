package schedule

import "context"

type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	ListByDay(ctx context.Context, day string, category Category) ([]Event, error)

	// MarkAttendance muta solo attended/attendedAt del participante.
	// Si el sujeto no estaba en la lista, se agrega como no-agendado.
	MarkAttendance(ctx context.Context, eventID, subjectID string, p Participant) error
}
