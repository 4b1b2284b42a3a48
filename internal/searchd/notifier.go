package searchd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/launch-search/pkg/logger"
	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

// NotificationPayload is the JSON body posted to a search's callback URL
type NotificationPayload struct {
	Search    SearchRecord `json:"search"`
	Timestamp int64        `json:"timestamp"` // when the notification was sent
}

// Notifier posts final search records to callback URLs
type Notifier struct {
	httpClient *http.Client
	maxRetries int
	backoff    utils.BackoffStrategy
}

// NewNotifier creates a notifier that retries failed deliveries maxRetries
// times, waiting according to backoff between attempts.
func NewNotifier(maxRetries int, backoff utils.BackoffStrategy) *Notifier {
	if backoff == nil {
		backoff = utils.NewExponentialBackoff(time.Second, 30*time.Second, 2, nil)
	}
	return &Notifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// Notify delivers rec asynchronously. "{search_id}" in the URL is replaced
// by the search id.
func (n *Notifier) Notify(callbackURL string, rec SearchRecord) {
	if callbackURL == "" {
		return
	}
	go func() {
		if err := n.Send(context.Background(), callbackURL, rec); err != nil {
			logger.Error("failed to send notification after retries",
				"callback_url", callbackURL,
				"search_id", rec.ID,
				"max_retries", n.maxRetries,
				"error", err)
		}
	}()
}

// Send delivers rec synchronously, retrying non-2xx responses and transport errors
func (n *Notifier) Send(ctx context.Context, callbackURL string, rec SearchRecord) error {
	finalURL := strings.ReplaceAll(callbackURL, "{search_id}", rec.ID)
	body, err := json.Marshal(NotificationPayload{
		Search:    rec,
		Timestamp: time.Now().UTC().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			delay := n.backoff.NextDelay(attempt - 1)
			logger.Debug("retrying notification",
				"callback_url", finalURL,
				"search_id", rec.ID,
				"attempt", attempt,
				"delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = n.post(ctx, finalURL, body)
		if lastErr == nil {
			logger.Info("notification sent", "search_id", rec.ID, "status", rec.Status)
			return nil
		}
		logger.Warn("notification attempt failed",
			"callback_url", finalURL,
			"search_id", rec.ID,
			"attempt", attempt+1,
			"error", lastErr)
	}
	return lastErr
}

func (n *Notifier) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "launch-search/1.0")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, snippet)
}
