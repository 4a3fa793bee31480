package ws

import (
	"encoding/json"
	"time"

	"skill-bridge/internal/domain/competency"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventRecommendationsCreated = "recommendations_created"

type RecommendationsCreatedEvent struct {
	Type       string      `json:"type"`
	EntityKind string      `json:"entity_kind"`
	EntityID   string      `json:"entity_id"`
	ProfileIDs []uuid.UUID `json:"profile_ids"`
	Count      int         `json:"count"`
	Timestamp  string      `json:"timestamp"`
}

// Notifier publishes recommendation runs to hub clients.
type Notifier struct {
	hub    *Hub
	logger *zap.Logger
	now    func() time.Time
}

func NewNotifier(hub *Hub, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{hub: hub, logger: logger, now: time.Now}
}

func (n *Notifier) NotifyRecommendations(target competency.Target, profileIDs []uuid.UUID) {
	if n == nil || n.hub == nil || len(profileIDs) == 0 {
		return
	}

	evt := RecommendationsCreatedEvent{
		Type:       EventRecommendationsCreated,
		EntityKind: string(target.Kind),
		EntityID:   target.ID.String(),
		ProfileIDs: profileIDs,
		Count:      len(profileIDs),
		Timestamp:  n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		n.logger.Error("ws event encode failed", zap.Error(err))
		return
	}
	n.hub.Publish(b, profileIDs)
}
