package schedule

import "time"

// Event es un evento organizacional agendado (junta, taller, etc.).
// El scheduling vive fuera del core; el engine solo lee el evento y
// muta attended/attendedAt de sus participantes.
type Event struct {
	ID          string
	Title       string
	Category    Category
	StartsAt    time.Time
	Day         string // día calendario org de StartsAt, partition key para listados
	LocationKey string

	Participants map[string]Participant // subjectID -> entry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant es la entrada de un sujeto en la lista del evento.
type Participant struct {
	SubjectID  string
	Scheduled  bool
	Attended   bool
	AttendedAt *time.Time
}
