package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"asesoria/internal/domain"
)

// HTTPSyncer POSTs the full item list to a remote cart endpoint. Used when
// CART_SYNC_URL is configured; otherwise the NoopSyncer stands in.
type HTTPSyncer struct {
	URL    string
	Client *http.Client
}

func NewHTTPSyncer(url string) *HTTPSyncer {
	return &HTTPSyncer{
		URL:    url,
		Client: http.DefaultClient,
	}
}

func (s *HTTPSyncer) Sync(ctx context.Context, ownerKey string, items []domain.CartItem) error {
	payload, err := json.Marshal(map[string]any{
		"owner": ownerKey,
		"items": items,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("cart sync returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopSyncer satisfies Syncer when no remote endpoint is configured.
type NoopSyncer struct{}

func (NoopSyncer) Sync(context.Context, string, []domain.CartItem) error { return nil }
