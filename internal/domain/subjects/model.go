package subjects

import (
	"time"

	"attendance-engine/internal/domain/schedule"
)

// RecordStatus es el estado de un registro de asistencia.
type RecordStatus string

const (
	// StatusClockedIn: intervalo abierto, el sujeto sigue presente.
	StatusClockedIn RecordStatus = "clocked-in"
	// StatusCompleted: intervalo cerrado con clock-out normal.
	StatusCompleted RecordStatus = "completed"
	// StatusClockOutOnly: cierre degradado, no había registro abierto y se
	// reconstruyó el intervalo desde el live status del sujeto.
	StatusClockOutOnly RecordStatus = "clock-out-only"
)

// Record es un intervalo físico de presencia. Nunca se borra: un
// clock-in repetido el mismo día crea otro registro con otra key.
type Record struct {
	Key string

	Status       RecordStatus
	ClockInTime  time.Time
	ClockOutTime *time.Time
	IsLate       bool
	LocationKey  string

	EventCategory schedule.Category // vacío si el scan no venía ligado a evento
	HoursWorked   *float64          // seteado al cerrar
}

// EventEntry es la copia del sujeto de su participación en un evento
// agendado, agrupada por categoría canónica.
type EventEntry struct {
	EventID    string
	Scheduled  bool
	Attended   bool
	AttendedAt *time.Time
	Date       string // día calendario org
}

// Subject es un miembro cuya asistencia se registra.
type Subject struct {
	ID   string
	Name string

	// Live status
	ClockedIn       bool
	ActiveRecordKey string

	// Agregados diarios/acumulados
	DaysPresent      int
	DaysLate         int
	TotalHoursWorked float64
	LastClockIn      *time.Time
	LastClockOut     *time.Time

	// Colecciones propias
	Records map[string]Record                           // key -> record
	Events  map[schedule.Category]map[string]EventEntry // categoría -> eventID -> entry

	// Version para el check optimista en Commit (serializa writes al agregado).
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone copia el sujeto con sus colecciones, para que el cache y los
// repos en memoria no compartan maps mutables con los callers.
func (s Subject) Clone() Subject {
	out := s
	out.Records = make(map[string]Record, len(s.Records))
	for k, v := range s.Records {
		out.Records[k] = v
	}
	out.Events = make(map[schedule.Category]map[string]EventEntry, len(s.Events))
	for cat, entries := range s.Events {
		m := make(map[string]EventEntry, len(entries))
		for id, e := range entries {
			m[id] = e
		}
		out.Events[cat] = m
	}
	return out
}
