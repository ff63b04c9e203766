package attendance

import (
	"context"
	"errors"

	"attendance-engine/internal/platform/logger"
)

// synchronizer aplica el mismo hecho a las dos vistas (sujeto y espejo
// por locación) vía un solo Commit. Ante falla parcial el sujeto manda:
// se reintenta el espejo una vez y, si sigue fallando, se loguea la
// divergencia para reconciliación posterior; no hay rollback.
type synchronizer struct {
	repo Repository
	log  logger.Logger
}

func (dw *synchronizer) commit(ctx context.Context, cs Changeset) error {
	err := dw.repo.Commit(ctx, cs)
	if err == nil {
		return nil
	}

	var partial *PartialWriteError
	if !errors.As(err, &partial) {
		return err
	}

	if cs.Mirror != nil {
		if rerr := dw.repo.CommitMirror(ctx, *cs.Mirror); rerr == nil {
			dw.log.Info("location mirror recovered after partial write", map[string]any{
				"subject_id":   cs.SubjectID,
				"location_key": cs.Mirror.LocationKey,
				"day":          cs.Mirror.Day,
			})
			return nil
		}
	}

	fields := map[string]any{
		"subject_id": cs.SubjectID,
		"cause":      partial.Err,
	}
	if cs.Mirror != nil {
		fields["location_key"] = cs.Mirror.LocationKey
		fields["day"] = cs.Mirror.Day
		fields["record_key"] = cs.Mirror.RecordKey
	}
	dw.log.Warn("location mirror diverged; subject record is authoritative", fields)

	// El write autoritativo quedó aplicado: para el caller es éxito.
	return nil
}
