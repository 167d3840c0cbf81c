package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/quizforge/mathduel/internal/model"
)

// Broadcaster relays game events to SSE clients as JSON frames
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// eventFrame is the wire shape of a broadcast event
type eventFrame struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	SessionID model.SessionID `json:"session_id"`
	PlayerID  model.PlayerID  `json:"player_id,omitempty"`
	Payload   any             `json:"payload,omitempty"`
}

// Publish broadcasts a game event to all clients watching its session
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil {
		// Nobody is watching this session
		return
	}

	frame := eventFrame{
		Type:      string(event.Type),
		Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		SessionID: event.SessionID,
		PlayerID:  event.PlayerID,
		Payload:   event.Payload,
	}

	data, err := json.Marshal(frame)
	if err != nil {
		b.logger.Error("sse failed to marshal event",
			slog.String("session", string(event.SessionID)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))

	// A finished or abandoned game will get no further events; drop its hub
	// once the connected clients have gone away
	if event.Type == model.EventGameOver || event.Type == model.EventSessionAbandoned {
		go b.hubManager.CleanupEmptyHubs()
	}
}
