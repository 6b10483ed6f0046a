//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestMessages_CreateAndList(t *testing.T) {
	createResp := doPost(t, "/messages", messageRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Shipping question",
		Body:    "Where is my order?",
	})
	defer createResp.Body.Close()

	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", createResp.StatusCode)
	}

	created := decodeJSON[messageResponse](t, createResp)
	if created.ID == 0 {
		t.Fatal("expected a non-zero message id")
	}

	listResp := doGet(t, "/messages")
	defer listResp.Body.Close()

	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", listResp.StatusCode)
	}

	messages := decodeJSON[[]messageResponse](t, listResp)
	found := false
	for _, m := range messages {
		if m.ID == created.ID {
			found = true
			if m.Subject != "Shipping question" {
				t.Errorf("expected subject to round-trip, got %q", m.Subject)
			}
		}
	}
	if !found {
		t.Fatalf("created message %d not in listing", created.ID)
	}
}

func TestMessages_MissingField(t *testing.T) {
	resp := doPost(t, "/messages", messageRequest{
		Name:  "Ada",
		Email: "ada@example.com",
		Body:  "no subject here",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if !strings.Contains(body.Message, "subject") {
		t.Fatalf("expected message naming subject, got %q", body.Message)
	}
}
