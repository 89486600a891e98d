// Package factory talks to the pizza factory, the external service
// that countersigns order receipts.
package factory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pizza_service/internal/model"
)

// Client calls the factory's order endpoint to obtain the signed
// receipt returned to the diner alongside a created order.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a factory client
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type orderRequest struct {
	Diner dinerRef     `json:"diner"`
	Order *model.Order `json:"order"`
}

type dinerRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderResponse struct {
	JWT       string `json:"jwt"`
	ReportURL string `json:"reportUrl"`
}

// SignReceipt submits the order to the factory and returns the signed
// receipt token.
func (c *Client) SignReceipt(ctx context.Context, diner *model.User, order *model.Order) (string, error) {
	payload, err := json.Marshal(orderRequest{
		Diner: dinerRef{ID: diner.ID, Name: diner.Name, Email: diner.Email},
		Order: order,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode factory request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/order", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build factory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("factory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("factory returned status %d", resp.StatusCode)
	}

	var body orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode factory response: %w", err)
	}
	if body.JWT == "" {
		return "", fmt.Errorf("factory response missing receipt")
	}
	return body.JWT, nil
}
