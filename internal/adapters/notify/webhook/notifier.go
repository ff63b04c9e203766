package webhook

import (
	"context"
	"strings"
	"time"

	"attendance-engine/internal/platform/bus"
	"attendance-engine/internal/platform/httpclient"
	"attendance-engine/internal/platform/logger"
)

// Notifier reenvía las notificaciones del bus a un dashboard externo vía
// HTTP POST. Los dashboards fuera de este proceso no pueden suscribirse
// al bus en memoria; este puente es cómo se enteran de que deben re-leer.
type Notifier struct {
	client *httpclient.Client
	log    logger.Logger

	unsubs []func()
}

type Config struct {
	// BaseURL del dashboard (p.ej. https://dashboards.internal). Si está
	// vacío, el notifier queda deshabilitado.
	BaseURL string
	Timeout time.Duration
}

type payload struct {
	Topic   string    `json:"topic"`
	Payload any       `json:"payload"`
	SentAt  time.Time `json:"sent_at"`
}

func New(cfg Config, log logger.Logger) (*Notifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, nil
	}
	client, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Notifier{client: client, log: log}, nil
}

// Attach suscribe el notifier a los cuatro topics del engine.
func (n *Notifier) Attach(b *bus.Bus) {
	if n == nil {
		return
	}
	topics := []string{
		bus.TopicAttendanceUpdated,
		bus.TopicSubjectUpdated,
		bus.TopicEventUpdated,
		bus.TopicLocationDashboard,
	}
	for _, topic := range topics {
		t := topic
		n.unsubs = append(n.unsubs, b.Subscribe(t, func(p any) {
			n.forward(t, p)
		}))
	}
}

// Detach des-suscribe todos los handlers (shutdown/tests).
func (n *Notifier) Detach() {
	if n == nil {
		return
	}
	for _, u := range n.unsubs {
		u()
	}
	n.unsubs = nil
}

func (n *Notifier) forward(topic string, p any) {
	ctx, cancel := context.WithTimeout(context.Background(), httpclient.DefaultTimeout)
	defer cancel()

	body := payload{Topic: topic, Payload: p, SentAt: time.Now()}
	if err := n.client.DoJSON(ctx, "POST", "/notifications", nil, body, nil); err != nil {
		// Best-effort: un dashboard caído no puede frenar un escaneo.
		n.log.Warn("dashboard webhook delivery failed", map[string]any{
			"topic": topic,
			"cause": err,
		})
	}
}
