//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestOrderHistory_AfterSimulatedPayment(t *testing.T) {
	items := json.RawMessage(`[{"productId":3,"quantity":2},{"productId":5,"quantity":1}]`)

	simResp := doPost(t, "/checkout/simulate", checkoutRequest{
		UserID: 77,
		Total:  json.Number("18.97"),
		Items:  items,
	})
	defer simResp.Body.Close()

	if simResp.StatusCode != http.StatusOK {
		t.Fatalf("simulate: expected 200, got %d", simResp.StatusCode)
	}
	sim := decodeJSON[simulateResponse](t, simResp)

	resp := doGet(t, "/orders/77")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	orders := decodeJSON[[]orderResponse](t, resp)
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	got := orders[0]
	if got.ID != sim.OrderID {
		t.Errorf("expected order id %d, got %d", sim.OrderID, got.ID)
	}
	if got.Status != "PAID" {
		t.Errorf("expected PAID, got %q", got.Status)
	}
	if got.PaymentMethod != "Gateway (Simulated)" {
		t.Errorf("expected simulated payment method, got %q", got.PaymentMethod)
	}
	if got.Total != 18.97 {
		t.Errorf("expected total 18.97, got %v", got.Total)
	}
	if got.GatewayToken == nil || !strings.HasPrefix(*got.GatewayToken, "SIMULATED_") {
		t.Errorf("expected SIMULATED_ token, got %v", got.GatewayToken)
	}

	var wantItems, gotItems any
	if err := json.Unmarshal(items, &wantItems); err != nil {
		t.Fatalf("unmarshal expected items: %v", err)
	}
	if err := json.Unmarshal(got.Items, &gotItems); err != nil {
		t.Fatalf("unmarshal returned items: %v", err)
	}
	if !equalJSON(wantItems, gotItems) {
		t.Errorf("items round-trip mismatch: want %s, got %s", items, got.Items)
	}
}

func TestOrderHistory_NewestFirst(t *testing.T) {
	var ids []int64
	for _, total := range []string{"0.99", "4.99"} {
		resp := doPost(t, "/checkout/simulate", checkoutRequest{
			UserID: 78,
			Total:  json.Number(total),
			Items:  json.RawMessage(`[{"productId":1,"quantity":1}]`),
		})
		sim := decodeJSON[simulateResponse](t, resp)
		resp.Body.Close()
		ids = append(ids, sim.OrderID)
	}

	resp := doGet(t, "/orders/78")
	defer resp.Body.Close()

	orders := decodeJSON[[]orderResponse](t, resp)
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != ids[1] || orders[1].ID != ids[0] {
		t.Fatalf("expected newest-first order [%d %d], got [%d %d]",
			ids[1], ids[0], orders[0].ID, orders[1].ID)
	}
}

func TestOrderHistory_Empty(t *testing.T) {
	resp := doGet(t, "/orders/999999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	orders := decodeJSON[[]orderResponse](t, resp)
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
}

func equalJSON(a, b any) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}
