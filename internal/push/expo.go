// Package push delivers resolved notifications to the Expo push gateway.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/notification"
)

// DefaultEndpoint is the Expo push API.
const DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

// chunkSize is the maximum number of messages per gateway request, per the
// Expo API limit.
const chunkSize = 100

// maxConcurrentChunks caps parallel requests to the gateway.
const maxConcurrentChunks = 4

// expoMessage is the gateway wire format for one notification.
type expoMessage struct {
	To    []string `json:"to"`
	Title string   `json:"title,omitempty"`
	Body  string   `json:"body"`
	Sound string   `json:"sound,omitempty"`
}

// expoResponse is the gateway's reply: one ticket per message, in order.
type expoResponse struct {
	Data []expoTicket `json:"data"`
}

type expoTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ExpoSender sends notification batches to the Expo push gateway. Gateway and
// transport failures surface as per-item error receipts, never as process
// errors: delivery is best-effort.
type ExpoSender struct {
	endpoint string
	client   *http.Client
}

// NewExpoSender creates an ExpoSender for the given endpoint. An empty
// endpoint selects the public Expo API.
func NewExpoSender(endpoint string, timeout time.Duration) *ExpoSender {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ExpoSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send posts the batch to the gateway in chunks of at most chunkSize
// messages, dispatched concurrently, and returns one receipt per notification
// in input order.
func (s *ExpoSender) Send(ctx context.Context, batch []domain.Notification) ([]domain.DeliveryReceipt, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	messages := make([]expoMessage, len(batch))
	for i, n := range batch {
		messages[i] = expoMessage{
			To:    n.Destinations,
			Title: n.Title,
			Body:  n.Body,
			Sound: "default",
		}
	}

	receipts := make([]domain.DeliveryReceipt, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChunks)
	for start := 0; start < len(messages); start += chunkSize {
		end := min(start+chunkSize, len(messages))
		g.Go(func() error {
			s.sendChunk(gctx, messages[start:end], receipts[start:end])
			return nil
		})
	}
	// Workers report through the receipts slices, never through errors, so a
	// failed chunk cannot cancel its siblings.
	_ = g.Wait()

	return receipts, nil
}

// sendChunk posts one chunk and fills the corresponding receipt slots. Any
// transport or decode failure marks the whole chunk failed.
func (s *ExpoSender) sendChunk(ctx context.Context, chunk []expoMessage, receipts []domain.DeliveryReceipt) {
	tickets, err := s.post(ctx, chunk)
	if err != nil {
		for i := range receipts {
			receipts[i] = domain.DeliveryReceipt{
				Status: domain.ReceiptError,
				Detail: err.Error(),
			}
		}
		return
	}

	for i := range receipts {
		if i >= len(tickets) {
			receipts[i] = domain.DeliveryReceipt{
				Status: domain.ReceiptError,
				Detail: "gateway returned no ticket",
			}
			continue
		}
		t := tickets[i]
		status := domain.ReceiptError
		if t.Status == "ok" {
			status = domain.ReceiptOK
		}
		receipts[i] = domain.DeliveryReceipt{
			Status: status,
			ID:     t.ID,
			Detail: t.Message,
		}
	}
}

func (s *ExpoSender) post(ctx context.Context, chunk []expoMessage) ([]expoTicket, error) {
	body, err := json.Marshal(chunk)
	if err != nil {
		return nil, fmt.Errorf("push: marshal chunk: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("push: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("push: unexpected status %d: %s", resp.StatusCode, string(detail))
	}

	var parsed expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("push: decode response: %w", err)
	}
	return parsed.Data, nil
}

// Compile-time interface check.
var _ notification.Sender = (*ExpoSender)(nil)
