package handlers

import (
	"context"
	"strings"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/dashboard"
	"github.com/sentimentiq/backend/internal/metrics"
	"github.com/sentimentiq/backend/internal/models"
	"github.com/sentimentiq/backend/internal/sentiment"
	"github.com/sentimentiq/backend/pkg/logger"
)

type WebSocketHandler struct {
	store      *dashboard.Store
	classifier sentiment.Classifier
}

func NewWebSocketHandler(store *dashboard.Store, classifier sentiment.Classifier) *WebSocketHandler {
	return &WebSocketHandler{
		store:      store,
		classifier: classifier,
	}
}

type inboundMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// HandleConnection sends the current snapshot, then pushes every replacement
// while answering predict messages on the same connection.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")
	metrics.WebSocketClients.Inc()

	var writeMu sync.Mutex
	send := func(msg map[string]interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return c.WriteJSON(msg)
	}

	updates := h.store.Subscribe()
	pushDone := make(chan struct{})

	defer func() {
		h.store.Unsubscribe(updates)
		<-pushDone
		c.Close()
		metrics.WebSocketClients.Dec()
		logger.Info("WebSocket connection closed")
	}()

	if snap := h.store.Current(); snap != nil {
		if err := send(snapshotMessage(snap)); err != nil {
			logger.Error("Failed to send snapshot", zap.Error(err))
		}
	}

	go func() {
		defer close(pushDone)
		for snap := range updates {
			if err := send(snapshotMessage(snap)); err != nil {
				logger.Warn("Failed to push snapshot", zap.Error(err))
				return
			}
		}
	}()

	for {
		var msg inboundMessage
		if err := c.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("Failed to read WebSocket message", zap.Error(err))
			}
			break
		}

		reply := h.handleMessage(context.Background(), msg)
		if reply == nil {
			continue
		}
		if err := send(reply); err != nil {
			logger.Error("Failed to send WebSocket reply", zap.Error(err))
			break
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, msg inboundMessage) map[string]interface{} {
	switch msg.Type {
	case "predict":
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			return errorMessage("content is required")
		}

		result, err := h.classifier.Classify(ctx, text)
		if err != nil {
			logger.Error("Failed to classify WebSocket review", zap.Error(err))
			return errorMessage("Failed to classify review")
		}

		return map[string]interface{}{
			"type":       "prediction",
			"sentiment":  result.Sentiment,
			"confidence": result.Confidence,
			"backend":    result.Backend,
		}

	case "snapshot":
		if snap := h.store.Current(); snap != nil {
			return snapshotMessage(snap)
		}
		return errorMessage("no dashboard data yet")
	}

	return nil
}

func snapshotMessage(snap *models.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"type":        "snapshot",
		"snapshot_id": snap.ID,
		"source":      snap.Source,
		"created_at":  snap.CreatedAt,
		"dashboard":   snap.Dashboard,
	}
}

func errorMessage(errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}
}
