//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go/modules/compose"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	baseURL    string
	httpClient *http.Client
)

// Response types — defined locally to keep tests truly black-box (no internal imports).

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type productResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

type checkoutRequest struct {
	UserID int64           `json:"userId"`
	Total  json.Number     `json:"total"`
	Items  json.RawMessage `json:"items"`
}

type simulateResponse struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"orderId"`
}

type orderResponse struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId"`
	Total         float64         `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	Items         json.RawMessage `json:"items"`
	GatewayToken  *string         `json:"gatewayToken"`
}

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type messageResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dc, err := tc.NewDockerCompose("docker-compose.test.yml")
	if err != nil {
		log.Fatalf("compose init: %v", err)
	}

	// Start postgres + api (which seeds before serving), wait for the health check.
	err = dc.
		WaitForService("api", wait.ForHTTP("/readyz").WithPort("4000/tcp")).
		Up(ctx, tc.Wait(true))
	if err != nil {
		log.Fatalf("compose up: %v", err)
	}

	apiContainer, err := dc.ServiceContainer(ctx, "api")
	if err != nil {
		log.Fatalf("api container: %v", err)
	}

	host, err := apiContainer.Host(ctx)
	if err != nil {
		log.Fatalf("host: %v", err)
	}

	mappedPort, err := apiContainer.MappedPort(ctx, "4000/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	baseURL = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	httpClient = &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			// Payment confirmation answers with a redirect; tests assert on it.
			return http.ErrUseLastResponse
		},
	}

	seedCtx, seedCancel := context.WithTimeout(ctx, time.Minute)
	if err := waitForSeededData(seedCtx); err != nil {
		seedCancel()
		log.Fatalf("wait for seed: %v", err)
	}
	seedCancel()

	result := m.Run()

	if err := dc.Down(context.Background(), tc.RemoveOrphans(true), tc.RemoveVolumes(true)); err != nil {
		log.Printf("compose down: %v", err)
	}

	return result
}

// waitForSeededData polls the product list until all 8 seeded products appear.
func waitForSeededData(ctx context.Context) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var lastErr string
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for seeded data (last: %s): %w", lastErr, ctx.Err())
		case <-ticker.C:
			resp, err := httpClient.Get(baseURL + "/products")
			if err != nil {
				lastErr = err.Error()
				continue
			}

			var products []productResponse
			if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
				lastErr = fmt.Sprintf("decode: %v (status: %d)", err, resp.StatusCode)
				resp.Body.Close()
				continue
			}
			resp.Body.Close()

			if len(products) == 8 {
				log.Printf("seed data ready: %d products", len(products))
				return nil
			}
			lastErr = fmt.Sprintf("got %d products, want 8", len(products))
		}
	}
}

// HTTP helpers.

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}

	return resp
}

func doPost(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}

	return resp
}

func doPostForm(t *testing.T, path string, values url.Values) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, baseURL+path,
		strings.NewReader(values.Encode()))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}

	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode body %q: %v", data, err)
	}
	return v
}
