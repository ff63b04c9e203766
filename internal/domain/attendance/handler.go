package attendance

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"attendance-engine/internal/domain/schedule"
	"attendance-engine/internal/domain/subjects"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/subjects/{subjectID}", func(sr chi.Router) {
		sr.Post("/clock-in", clockInHandler(svc))
		sr.Post("/clock-out", clockOutHandler(svc))
		sr.Post("/events/{eventID}/attendance", markEventHandler(svc))
	})

	r.Get("/locations/{locationKey}/days/{day}", locationDayHandler(svc))
}

// clockInRequest es el cuerpo de un escaneo de entrada.
type clockInRequest struct {
	LocationKey   string `json:"location_key"`
	EventCategory string `json:"event_category"` // opcional, string libre; se normaliza
}

type clockOutRequest struct {
	LocationKey string `json:"location_key"`
}

type markEventRequest struct {
	Category    string `json:"category"`
	LocationKey string `json:"location_key"` // opcional
}

// recordResponse representa un registro de asistencia devuelto por la API.
type recordResponse struct {
	Key           string     `json:"key"`
	Status        string     `json:"status"`
	ClockInTime   time.Time  `json:"clock_in_time"`
	ClockOutTime  *time.Time `json:"clock_out_time,omitempty"`
	IsLate        bool       `json:"is_late"`
	LocationKey   string     `json:"location_key"`
	EventCategory string     `json:"event_category,omitempty"`
	HoursWorked   *float64   `json:"hours_worked,omitempty"`
}

type subjectStatusResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	ClockedIn        bool       `json:"clocked_in"`
	ActiveRecordKey  string     `json:"active_record_key,omitempty"`
	DaysPresent      int        `json:"days_present"`
	DaysLate         int        `json:"days_late"`
	TotalHoursWorked float64    `json:"total_hours_worked"`
	LastClockIn      *time.Time `json:"last_clock_in,omitempty"`
	LastClockOut     *time.Time `json:"last_clock_out,omitempty"`
}

type clockInResponse struct {
	Record        recordResponse        `json:"record"`
	Subject       subjectStatusResponse `json:"subject"`
	CountedForDay bool                  `json:"counted_for_day"`
	LinkedEventID string                `json:"linked_event_id,omitempty"`
}

type clockOutResponse struct {
	Record      recordResponse        `json:"record"`
	Subject     subjectStatusResponse `json:"subject"`
	HoursWorked float64               `json:"hours_worked"`
	Recovered   bool                  `json:"recovered"`
}

type mirrorResponse struct {
	LocationKey  string     `json:"location_key"`
	Day          string     `json:"day"`
	SubjectID    string     `json:"subject_id"`
	SubjectName  string     `json:"subject_name"`
	RecordKey    string     `json:"record_key"`
	Status       string     `json:"status"`
	ClockInTime  time.Time  `json:"clock_in_time"`
	ClockOutTime *time.Time `json:"clock_out_time,omitempty"`
	IsLate       bool       `json:"is_late"`
	HoursWorked  *float64   `json:"hours_worked,omitempty"`
}

// clockInHandler godoc
// @Summary Registrar entrada (clock-in)
// @Description Registra la entrada de un sujeto escaneado en una locación. Un re-escaneo el mismo día crea otro registro pero no vuelve a subir los contadores diarios. Si viene event_category, se liga al evento agendado de hoy.
// @Tags attendance
// @Accept json
// @Produce json
// @Param X-Station-ID header string false "ID de la estación de escaneo (modo dev)"
// @Param subjectID path string true "ID del sujeto"
// @Param payload body clockInRequest true "Locación y categoría opcional"
// @Success 201 {object} clockInResponse
// @Failure 400 {string} string "invalid json / location_key requerido"
// @Failure 404 {string} string "subject not found"
// @Failure 502 {string} string "store write failed"
// @Router /subjects/{subjectID}/clock-in [post]
func clockInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clockInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.ClockIn(r.Context(), chi.URLParam(r, "subjectID"), req.LocationKey, req.EventCategory)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, clockInResponse{
			Record:        toRecordResponse(res.Record),
			Subject:       toSubjectStatus(res.Subject),
			CountedForDay: res.CountedForDay,
			LinkedEventID: res.LinkedEventID,
		})
	}
}

// clockOutHandler godoc
// @Summary Registrar salida (clock-out)
// @Description Cierra el registro abierto más reciente de hoy y acumula las horas trabajadas. Si no hay registro abierto pero el live status dice adentro, cierra por la vía degradada (status clock-out-only).
// @Tags attendance
// @Accept json
// @Produce json
// @Param X-Station-ID header string false "ID de la estación de escaneo (modo dev)"
// @Param subjectID path string true "ID del sujeto"
// @Param payload body clockOutRequest true "Locación"
// @Success 200 {object} clockOutResponse
// @Failure 400 {string} string "invalid json / location_key requerido"
// @Failure 404 {string} string "subject not found"
// @Failure 409 {string} string "no active session"
// @Failure 502 {string} string "store write failed"
// @Router /subjects/{subjectID}/clock-out [post]
func clockOutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clockOutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.ClockOut(r.Context(), chi.URLParam(r, "subjectID"), req.LocationKey)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, clockOutResponse{
			Record:      toRecordResponse(res.Record),
			Subject:     toSubjectStatus(res.Subject),
			HoursWorked: res.HoursWorked,
			Recovered:   res.Recovered,
		})
	}
}

// markEventHandler godoc
// @Summary Marcar asistencia a un evento agendado
// @Description Setea attended=true en la copia del sujeto y en la lista de participantes del evento. La categoría libre se normaliza al token canónico.
// @Tags attendance
// @Accept json
// @Produce json
// @Param subjectID path string true "ID del sujeto"
// @Param eventID path string true "ID del evento"
// @Param payload body markEventRequest true "Categoría (se normaliza) y locación opcional"
// @Success 200 {object} map[string]any
// @Failure 400 {string} string "invalid json / category requerida"
// @Failure 404 {string} string "subject o evento no encontrado"
// @Failure 502 {string} string "store write failed"
// @Router /subjects/{subjectID}/events/{eventID}/attendance [post]
func markEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.MarkEventAttendance(
			r.Context(),
			chi.URLParam(r, "subjectID"),
			chi.URLParam(r, "eventID"),
			req.Category,
			req.LocationKey,
		)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"subject":  toSubjectStatus(res.Subject),
			"event_id": res.Event.ID,
			"category": string(res.Category),
		})
	}
}

// locationDayHandler godoc
// @Summary Vista por locación y día
// @Description Lista los registros espejo de una locación para un día calendario. Vista desnormalizada para dashboards; ante desacuerdo manda el registro del sujeto.
// @Tags attendance
// @Produce json
// @Param locationKey path string true "Key de la locación"
// @Param day path string true "Día calendario YYYY-MM-DD (zona organizacional)"
// @Success 200 {array} mirrorResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 500 {string} string "internal error"
// @Router /locations/{locationKey}/days/{day} [get]
func locationDayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.LocationDay(r.Context(), chi.URLParam(r, "locationKey"), chi.URLParam(r, "day"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]mirrorResponse, 0, len(items))
		for _, m := range items {
			out = append(out, mirrorResponse{
				LocationKey:  m.LocationKey,
				Day:          m.Day,
				SubjectID:    m.SubjectID,
				SubjectName:  m.SubjectName,
				RecordKey:    m.RecordKey,
				Status:       string(m.Status),
				ClockInTime:  m.ClockInTime,
				ClockOutTime: m.ClockOutTime,
				IsLate:       m.IsLate,
				HoursWorked:  m.HoursWorked,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toRecordResponse(rec subjects.Record) recordResponse {
	return recordResponse{
		Key:           rec.Key,
		Status:        string(rec.Status),
		ClockInTime:   rec.ClockInTime,
		ClockOutTime:  rec.ClockOutTime,
		IsLate:        rec.IsLate,
		LocationKey:   rec.LocationKey,
		EventCategory: string(rec.EventCategory),
		HoursWorked:   rec.HoursWorked,
	}
}

func toSubjectStatus(s subjects.Subject) subjectStatusResponse {
	return subjectStatusResponse{
		ID:               s.ID,
		Name:             s.Name,
		ClockedIn:        s.ClockedIn,
		ActiveRecordKey:  s.ActiveRecordKey,
		DaysPresent:      s.DaysPresent,
		DaysLate:         s.DaysLate,
		TotalHoursWorked: s.TotalHoursWorked,
		LastClockIn:      s.LastClockIn,
		LastClockOut:     s.LastClockOut,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, schedule.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, schedule.ErrNotFound):
		http.Error(w, "event not found", http.StatusNotFound)
	case errors.Is(err, ErrSubjectNotFound):
		http.Error(w, "subject not found", http.StatusNotFound)
	case errors.Is(err, ErrNoActiveSession):
		http.Error(w, "no active session", http.StatusConflict)
	case errors.Is(err, ErrStoreWrite):
		http.Error(w, "store write failed", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
