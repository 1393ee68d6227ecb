package federation

import (
	"context"
	"fmt"
	"time"

	"github.com/fedguard/appealbot/internal/config"
	"github.com/fedguard/appealbot/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Notifier pushes appeal resolutions to the federation's webhook endpoint.
// Delivery is best-effort: callers log failures and move on, the resolved
// status in the store stays authoritative either way.
type Notifier struct {
	client *resty.Client
	url    string
}

// NewNotifier returns nil when no webhook URL is configured; a nil Notifier
// is valid and drops every event.
func NewNotifier(cfg *config.Config) *Notifier {
	if cfg.FederationWebhookURL == "" {
		return nil
	}
	return &Notifier{
		client: resty.New().SetTimeout(10 * time.Second),
		url:    cfg.FederationWebhookURL,
	}
}

type resolutionEvent struct {
	DeliveryID string `json:"delivery_id"`
	AppealID   int64  `json:"appeal_id"`
	UserID     int64  `json:"user_id"`
	Status     string `json:"status"`
	ResolvedAt string `json:"resolved_at"`
}

func (n *Notifier) AppealResolved(ctx context.Context, appealID, userID int64, status models.AppealStatus) error {
	if n == nil {
		return nil
	}

	event := resolutionEvent{
		DeliveryID: uuid.New().String(),
		AppealID:   appealID,
		UserID:     userID,
		Status:     status.String(),
		ResolvedAt: time.Now().Format(time.RFC3339),
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("X-Delivery-ID", event.DeliveryID).
		SetBody(event).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status code: %d %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}
