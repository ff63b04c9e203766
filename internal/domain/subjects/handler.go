package subjects

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/subjects", createSubjectHandler(svc))
	r.Get("/subjects", listSubjectsHandler(svc))
	r.Get("/subjects/{subjectID}", getSubjectHandler(svc))
}

type createSubjectRequest struct {
	Name string `json:"name"`
}

// subjectResponse representa el estado vivo y los agregados de un sujeto.
type subjectResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	ClockedIn        bool       `json:"clocked_in"`
	ActiveRecordKey  string     `json:"active_record_key,omitempty"`
	DaysPresent      int        `json:"days_present"`
	DaysLate         int        `json:"days_late"`
	TotalHoursWorked float64    `json:"total_hours_worked"`
	LastClockIn      *time.Time `json:"last_clock_in,omitempty"`
	LastClockOut     *time.Time `json:"last_clock_out,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// createSubjectHandler godoc
// @Summary Dar de alta un sujeto
// @Description Alta mínima para operar el engine end-to-end. Perfiles completos, roles y desactivación viven en otro subsistema.
// @Tags subjects
// @Accept json
// @Produce json
// @Param payload body createSubjectRequest true "Nombre del sujeto"
// @Success 201 {object} subjectResponse
// @Failure 400 {string} string "invalid json / name requerido"
// @Router /subjects [post]
func createSubjectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSubjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s, err := svc.Create(r.Context(), CreateInput{Name: req.Name})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toSubjectResponse(s))
	}
}

// listSubjectsHandler godoc
// @Summary Listar sujetos
// @Description Lista todos los sujetos con su live status y agregados (vista de plantilla para dashboards).
// @Tags subjects
// @Produce json
// @Success 200 {array} subjectResponse
// @Failure 500 {string} string "internal error"
// @Router /subjects [get]
func listSubjectsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]subjectResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toSubjectResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getSubjectHandler godoc
// @Summary Consultar un sujeto
// @Description Devuelve live status y agregados de asistencia del sujeto.
// @Tags subjects
// @Produce json
// @Param subjectID path string true "ID del sujeto"
// @Success 200 {object} subjectResponse
// @Failure 404 {string} string "subject not found"
// @Router /subjects/{subjectID} [get]
func getSubjectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.GetByID(r.Context(), chi.URLParam(r, "subjectID"))
		if err != nil {
			// MVP: not found del repo como 404 (evita 500 innecesarios)
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if strings.Contains(strings.ToLower(err.Error()), "not found") {
				http.Error(w, "subject not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toSubjectResponse(s))
	}
}

func toSubjectResponse(s Subject) subjectResponse {
	return subjectResponse{
		ID:               s.ID,
		Name:             s.Name,
		ClockedIn:        s.ClockedIn,
		ActiveRecordKey:  s.ActiveRecordKey,
		DaysPresent:      s.DaysPresent,
		DaysLate:         s.DaysLate,
		TotalHoursWorked: s.TotalHoursWorked,
		LastClockIn:      s.LastClockIn,
		LastClockOut:     s.LastClockOut,
		CreatedAt:        s.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
