package attendance

import (
	"errors"
	"time"

	"attendance-engine/internal/domain/schedule"
	"attendance-engine/internal/domain/subjects"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrStoreWrite      = errors.New("store write failed")
)

// MirrorRecord es la copia desnormalizada del mismo hecho, indexada por
// locación/día/sujeto para que los dashboards por locación no escaneen
// todos los sujetos. No es autoritativa: ante desacuerdo manda el
// record del sujeto.
type MirrorRecord struct {
	LocationKey string
	Day         string
	SubjectID   string
	SubjectName string

	RecordKey    string
	Status       subjects.RecordStatus
	ClockInTime  time.Time
	ClockOutTime *time.Time
	IsLate       bool
	HoursWorked  *float64
}

// Change es el payload que se publica en el bus después de cada write.
type Change struct {
	Kind        string // "clock-in" | "clock-out" | "event-attendance"
	SubjectID   string
	RecordKey   string
	Day         string
	LocationKey string
	EventID     string
}

// ClockInResult es lo que vuelve al caller tras un clock-in exitoso.
type ClockInResult struct {
	Record        subjects.Record
	Subject       subjects.Subject
	CountedForDay bool // false si ya había registro hoy (guard de idempotencia)
	LinkedEventID string
}

// ClockOutResult es lo que vuelve al caller tras un clock-out exitoso.
type ClockOutResult struct {
	Record      subjects.Record
	Subject     subjects.Subject
	HoursWorked float64
	Recovered   bool // cierre degradado vía live status (clock-out-only)
}

// MarkResult es lo que vuelve tras marcar asistencia a un evento.
type MarkResult struct {
	Subject  subjects.Subject
	Event    schedule.Event
	Category schedule.Category
}
