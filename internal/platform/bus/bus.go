package bus

import (
	"fmt"
	"sync"

	"attendance-engine/internal/platform/logger"
)

// Topics que publica el engine después de cada write exitoso.
// Los dashboards (fuera del core) se suscriben y re-leen; no hay polling.
const (
	TopicAttendanceUpdated = "attendance-updated"
	TopicSubjectUpdated    = "subject-data-updated"
	TopicEventUpdated      = "event-updated"
	TopicLocationDashboard = "location-dashboard-updated"
)

type Handler func(payload any)

// Bus es un pub/sub en memoria con entrega síncrona: los handlers corren
// en el stack del publisher. Un handler que hace panic se recupera y se
// loguea, sin interrumpir a los demás handlers ni al publisher.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
	log    logger.Logger
}

func New(log logger.Logger) *Bus {
	return &Bus{
		subs: make(map[string]map[int]Handler),
		log:  log,
	}
}

// Subscribe registra un handler y devuelve la función para des-suscribirse.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(topic, h, payload)
	}
}

func (b *Bus) deliver(topic string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil && b.log != nil {
			b.log.Error("bus handler panicked", map[string]any{
				"topic": topic,
				"panic": fmt.Sprintf("%v", r),
			})
		}
	}()
	h(payload)
}
