package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ApplicationEvent is pushed to subscribers on every lifecycle transition.
type ApplicationEvent struct {
	Type          string    `json:"type"`
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	Status        string    `json:"status"`
	Timestamp     string    `json:"timestamp"`
}

const EventTypeApplication = "application_status"

// Publisher adapts the hub to the usecase layer's event interface.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) PublishApplicationEvent(applicationID, jobID uuid.UUID, status string) {
	if p == nil || p.hub == nil {
		return
	}

	evt := ApplicationEvent{
		Type:          EventTypeApplication,
		ApplicationID: applicationID,
		JobID:         jobID,
		Status:        status,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	p.hub.Broadcast(b)
}
