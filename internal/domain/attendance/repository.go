package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance-engine/internal/domain/schedule"
	"attendance-engine/internal/domain/subjects"
)

// ErrVersionConflict: la versión esperada del sujeto ya no coincide
// (otro write ganó entre el read y el commit). Los procesadores
// reintentan una vez con data fresca.
var ErrVersionConflict = errors.New("subject version conflict")

// SubjectPatch son los campos del agregado que un commit puede tocar.
// Los contadores van como deltas para que el adapter los aplique sobre
// el valor persistido, no sobre el que leyó el caller.
type SubjectPatch struct {
	ClockedIn       *bool
	ActiveRecordKey *string
	LastClockIn     *time.Time
	LastClockOut    *time.Time

	DaysPresentDelta int
	DaysLateDelta    int
	HoursDelta       float64
}

// EventLink es el lado del sujeto del vínculo con un evento agendado.
type EventLink struct {
	Category schedule.Category
	EventID  string
	Entry    subjects.EventEntry
}

// Changeset es el batch multi-path de un write de asistencia: patch del
// sujeto + upsert del record + vínculo de evento opcional + espejo de
// locación opcional. El patch del sujeto es autoritativo; el espejo es
// best-effort (ver PartialWriteError).
type Changeset struct {
	SubjectID       string
	ExpectedVersion int64

	Patch     SubjectPatch
	Record    *subjects.Record
	EventLink *EventLink
	Mirror    *MirrorRecord
}

// Repository es el primitivo de store que consume el engine.
// Contrato de Commit:
//   - aplica el lado sujeto (patch+record+link) de forma atómica,
//     validando ExpectedVersion (ErrVersionConflict si no coincide);
//   - después aplica el espejo; si el lado sujeto quedó aplicado pero el
//     espejo falló, devuelve *PartialWriteError (no se hace rollback).
type Repository interface {
	GetSubject(ctx context.Context, id string) (subjects.Subject, error) // ErrSubjectNotFound si no existe
	Commit(ctx context.Context, cs Changeset) error
	CommitMirror(ctx context.Context, m MirrorRecord) error
	ListMirror(ctx context.Context, locationKey, day string) ([]MirrorRecord, error)
}

// PartialWriteError: el write autoritativo del sujeto se aplicó y el
// espejo de locación falló. El synchronizer reintenta el espejo y
// loguea la divergencia; nunca revierte al sujeto.
type PartialWriteError struct {
	Err error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("subject write applied, mirror write failed: %v", e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
