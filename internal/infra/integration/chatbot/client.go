package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchLeads busca os contatos mais recentes do chatbot.
// Erro de rede, status fora de 2xx, JSON inválido ou sem "users" voltam como erro.
func (c *Client) FetchLeads(ctx context.Context) ([]User, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("chatbot url not configured")
	}
	url := fmt.Sprintf("%s/getleads", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatbot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chatbot returned status %d: %s", resp.StatusCode, string(body))
	}

	var response leadsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding chatbot response: %w", err)
	}
	if response.Users == nil {
		return nil, fmt.Errorf("chatbot response has no users field")
	}

	return *response.Users, nil
}
