package sse

import (
	"context"
	"sync"

	"ms-tours/internal/models"
)

// AllEntities subscribes to activity on every entity.
const AllEntities = ""

const clientBuffer = 16

// ActivityEmitter fans activity events out to dashboard SSE connections.
// It satisfies activity.Publisher.
type ActivityEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan models.ActivityEvent
}

func NewActivityEmitter() *ActivityEmitter {
	return &ActivityEmitter{clients: make(map[string][]chan models.ActivityEvent)}
}

// Subscribe returns a channel of events for entity, or for every entity when
// entity is AllEntities. The channel is closed once ctx is done.
func (e *ActivityEmitter) Subscribe(ctx context.Context, entity string) <-chan models.ActivityEvent {
	clientChan := make(chan models.ActivityEvent, clientBuffer)

	e.mu.Lock()
	e.clients[entity] = append(e.clients[entity], clientChan)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(entity, clientChan)
	}()

	return clientChan
}

// PublishActivity never blocks: a client whose buffer is full misses the event.
func (e *ActivityEmitter) PublishActivity(_ context.Context, event models.ActivityEvent) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	send(e.clients[AllEntities], event)
	if event.Entity != AllEntities {
		send(e.clients[event.Entity], event)
	}
	return nil
}

func send(clients []chan models.ActivityEvent, event models.ActivityEvent) {
	for _, clientChan := range clients {
		select {
		case clientChan <- event:
		default:
		}
	}
}

func (e *ActivityEmitter) remove(entity string, clientChan chan models.ActivityEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[entity]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[entity] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	if len(e.clients[entity]) == 0 {
		delete(e.clients, entity)
	}
}

// ClientCount returns the number of connections subscribed to entity.
func (e *ActivityEmitter) ClientCount(entity string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[entity])
}
