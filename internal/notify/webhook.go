package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const webhookTimeout = 5 * time.Second

// WebhookNotifier posts notifications to a push delivery gateway.
type WebhookNotifier struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewWebhookNotifier(url, token string) *WebhookNotifier {
	return &WebhookNotifier{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout:   webhookTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (n *WebhookNotifier) Completed(ctx context.Context, p Progress) {
	n.post(ctx, NewMessage(KindCompleted, p))
}

func (n *WebhookNotifier) Progress(ctx context.Context, p Progress) {
	n.post(ctx, NewMessage(KindProgress, p))
}

func (n *WebhookNotifier) AlmostDone(ctx context.Context, p Progress) {
	n.post(ctx, NewMessage(KindAlmostDone, p))
}

func (n *WebhookNotifier) post(ctx context.Context, msg Message) {
	if err := n.send(ctx, msg); err != nil {
		log.Errorf("push %s notification for challenge %s: %s", msg.Kind, msg.ChallengeID, err)
	}
}

func (n *WebhookNotifier) send(ctx context.Context, msg Message) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notify.webhook.send")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}
