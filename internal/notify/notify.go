// Package notify pushes order events to the remote notification
// service. Delivery is best effort: a full queue or a failed request
// is logged and dropped, it never affects the order that produced it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Farouk-MY/PFE-sub001/config"
	"github.com/Farouk-MY/PFE-sub001/models"
)

type Manager struct {
	Events chan models.OrderEvent
	Config *config.Config
	Logger *zap.SugaredLogger
}

func NewManager(events chan models.OrderEvent, config *config.Config, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		Events: events,
		Config: config,
		Logger: logger,
	}
}

// Publish never blocks the caller.
func (m *Manager) Publish(event models.OrderEvent) {
	select {
	case m.Events <- event:
	default:
		m.Logger.Warnw("notification queue full, event dropped",
			"order", event.OrderID, "kind", event.Kind)
	}
}

func (m *Manager) StartEventDelivery(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.Logger.Info("context done")
			return
		case event, ok := <-m.Events:
			if !ok {
				m.Logger.Info("event channel closed")
				return
			}
			if err := m.postEvent(event); err != nil {
				m.Logger.Warnw("failed to deliver notification",
					"order", event.OrderID, "error", err)
			}
		}
	}
}

func (m *Manager) postEvent(event models.OrderEvent) error {
	if m.Config.NotifyServiceAddress == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	url := fmt.Sprintf("%s/api/events", m.Config.NotifyServiceAddress)
	client := &http.Client{Timeout: m.Config.NotifyRequestTimeout}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
