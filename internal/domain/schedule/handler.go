package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/events", createEventHandler(svc))
	r.Get("/events", listEventsHandler(svc))
	r.Get("/events/{eventID}", getEventHandler(svc))
}

type createEventRequest struct {
	Title          string   `json:"title"`
	Category       string   `json:"category"` // libre; se normaliza al token canónico
	StartsAt       string   `json:"starts_at"` // RFC3339
	LocationKey    string   `json:"location_key"`
	ParticipantIDs []string `json:"participant_ids"`
}

type participantResponse struct {
	SubjectID  string     `json:"subject_id"`
	Scheduled  bool       `json:"scheduled"`
	Attended   bool       `json:"attended"`
	AttendedAt *time.Time `json:"attended_at,omitempty"`
}

// eventResponse representa un evento agendado devuelto por la API.
type eventResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Category     string                `json:"category"`
	StartsAt     time.Time             `json:"starts_at"`
	LocationKey  string                `json:"location_key,omitempty"`
	Participants []participantResponse `json:"participants"`
}

// createEventHandler godoc
// @Summary Crear evento agendado
// @Description Crea un evento con categoría (normalizada al set canónico), inicio y participantes agendados. Superficie mínima del subsistema de agenda para operar el engine.
// @Tags schedule
// @Accept json
// @Produce json
// @Param payload body createEventRequest true "Datos del evento; starts_at en RFC3339"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / starts_at inválido / campos requeridos"
// @Router /events [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			http.Error(w, "starts_at must be RFC3339", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), CreateInput{
			Title:          req.Title,
			Category:       req.Category,
			StartsAt:       t,
			LocationKey:    req.LocationKey,
			ParticipantIDs: req.ParticipantIDs,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// listEventsHandler godoc
// @Summary Listar eventos de un día
// @Description Lista eventos por día calendario, con filtro opcional de categoría (string libre; se normaliza antes de comparar).
// @Tags schedule
// @Produce json
// @Param day query string true "Día calendario YYYY-MM-DD (zona organizacional)"
// @Param category query string false "Categoría (se normaliza)"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "day requerido"
// @Failure 500 {string} string "internal error"
// @Router /events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByDay(r.Context(), r.URL.Query().Get("day"), r.URL.Query().Get("category"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "day is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getEventHandler godoc
// @Summary Consultar un evento
// @Tags schedule
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID} [get]
func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func toEventResponse(e Event) eventResponse {
	participants := make([]participantResponse, 0, len(e.Participants))
	for _, p := range e.Participants {
		participants = append(participants, participantResponse{
			SubjectID:  p.SubjectID,
			Scheduled:  p.Scheduled,
			Attended:   p.Attended,
			AttendedAt: p.AttendedAt,
		})
	}
	return eventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Category:     string(e.Category),
		StartsAt:     e.StartsAt,
		LocationKey:  e.LocationKey,
		Participants: participants,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
