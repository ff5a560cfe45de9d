package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const facturaPath = "/api/v1/dte/factura"
const invalidationPath = "/api/v1/dte/invalidacion"

// gatewayResult splits the three outcomes the caller must distinguish:
// accepted, explicitly rejected, and unreachable.
type gatewayResult struct {
	Accepted bool
	Offline  bool
	UUID     string
	Estado   string
	Sello    string
	Body     map[string]any
}

type gateway struct {
	baseURL string
	token   string
	client  *http.Client
}

func newGateway(baseURL, token string) *gateway {
	return &gateway{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *gateway) post(ctx context.Context, path string, payload map[string]any) (*gatewayResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// Network error: the gateway is unreachable, not rejecting.
		return &gatewayResult{Offline: true, Body: map[string]any{"error": err.Error()}}, nil
	}
	defer resp.Body.Close()

	var parsed map[string]any
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&parsed); err != nil {
		parsed = map[string]any{"raw_text": fmt.Sprintf("status %d", resp.StatusCode)}
	}

	res := &gatewayResult{Body: parsed}
	if v, ok := parsed["uuid"].(string); ok {
		res.UUID = v
	}
	if v, ok := parsed["estado"].(string); ok {
		res.Estado = v
	}
	if v, ok := parsed["selloRecibido"].(string); ok {
		res.Sello = v
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		res.Accepted = true
	case resp.StatusCode >= 500:
		// 5xx (Cloudflare 530 included) means the upstream is down;
		// keep the invoice pending for the autoresend loop.
		res.Offline = true
	}
	return res, nil
}
