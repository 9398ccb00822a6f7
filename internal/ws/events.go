package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type      string          `json:"type"`
	ID        uint64          `json:"id"`
	ProjectID int64           `json:"-"`
	Data      json.RawMessage `json:"data"`
	Time      time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client on connect to request event replay.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// EventSequence tracks monotonic event IDs per project.
type EventSequence struct {
	mu       sync.Mutex
	counters map[int64]*atomic.Uint64
}

// NewEventSequence creates a new EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{
		counters: make(map[int64]*atomic.Uint64),
	}
}

// Next returns the next sequence number for a project.
func (es *EventSequence) Next(projectID int64) uint64 {
	es.mu.Lock()
	counter, ok := es.counters[projectID]
	if !ok {
		counter = &atomic.Uint64{}
		es.counters[projectID] = counter
	}
	es.mu.Unlock()

	return counter.Add(1)
}
