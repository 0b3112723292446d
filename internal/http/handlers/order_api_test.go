package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func jsonReq(t *testing.T, method, target, token, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return req
}

const shippingBody = `{
  "shipping_address": "221B Baker Street",
  "shipping_city": "Pune",
  "shipping_state": "MH",
  "shipping_pincode": "411001",
  "shipping_phone": "+91 9000000001"
}`

func TestCheckoutFlowOverAPI(t *testing.T) {
	app, db := newApp(t)
	alice := bearer(t, "u-alice")

	// Add two products to the cart.
	resp, err := app.Test(jsonReq(t, "POST", "/api/cart", alice, `{"product":"prod-headphones","quantity":2}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("cart add: want 201, got %d", resp.StatusCode)
	}
	resp, err = app.Test(jsonReq(t, "POST", "/api/cart", alice, `{"product":"prod-tshirt","quantity":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("cart add: want 201, got %d", resp.StatusCode)
	}

	// Checkout.
	resp, err = app.Test(jsonReq(t, "POST", "/api/orders", alice, shippingBody))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: want 201, got %d", resp.StatusCode)
	}
	var order struct {
		ID      string `json:"id"`
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
		Total   string `json:"total_amount"`
		Items   []struct {
			Product  string `json:"product"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	}
	decode(t, resp, &order)
	if order.Status != "Pending" {
		t.Fatalf("want Pending, got %s", order.Status)
	}
	if order.Total != "6797" {
		t.Fatalf("want total 6797, got %s", order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("want 2 items, got %d", len(order.Items))
	}

	// Stock was decremented.
	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id='prod-headphones'`); err != nil {
		t.Fatal(err)
	}
	if stock != 48 {
		t.Fatalf("want stock 48, got %d", stock)
	}

	// Owner can view, another user cannot even see that it exists.
	resp, err = app.Test(jsonReq(t, "GET", "/api/orders/"+order.ID, alice, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner view: want 200, got %d", resp.StatusCode)
	}
	// Order history lists only the caller's orders.
	resp, err = app.Test(jsonReq(t, "GET", "/api/orders", alice, ""))
	if err != nil {
		t.Fatal(err)
	}
	var history []struct {
		OrderID string `json:"order_id"`
	}
	decode(t, resp, &history)
	if len(history) != 1 || history[0].OrderID != order.OrderID {
		t.Fatalf("order history mismatch: %+v", history)
	}
	resp, err = app.Test(jsonReq(t, "GET", "/api/orders", bearer(t, "u-bob"), ""))
	if err != nil {
		t.Fatal(err)
	}
	var empty []struct{}
	decode(t, resp, &empty)
	if len(empty) != 0 {
		t.Fatalf("bob should have no orders, got %d", len(empty))
	}

	resp, err = app.Test(jsonReq(t, "GET", "/api/orders/"+order.ID, bearer(t, "u-bob"), ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign view: want 404, got %d", resp.StatusCode)
	}

	// Admin walks the order forward.
	admin := bearer(t, "u-admin")
	resp, err = app.Test(jsonReq(t, "PUT", "/api/admin/orders/"+order.ID+"/update_status", admin, `{"status":"Processing"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status update: want 200, got %d", resp.StatusCode)
	}

	// A status outside the enum is a 400, not a 500.
	resp, err = app.Test(jsonReq(t, "PUT", "/api/admin/orders/"+order.ID+"/update_status", admin, `{"status":"Shipped-ish"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad status: want 400, got %d", resp.StatusCode)
	}

	// So is a backwards transition.
	resp, err = app.Test(jsonReq(t, "PUT", "/api/admin/orders/"+order.ID+"/update_status", admin, `{"status":"Pending"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("backwards transition: want 400, got %d", resp.StatusCode)
	}

	// Notes stick.
	resp, err = app.Test(jsonReq(t, "PUT", "/api/admin/orders/"+order.ID+"/add_notes", admin, `{"notes":"fragile, double-box"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add notes: want 200, got %d", resp.StatusCode)
	}
	var noted struct {
		AdminNotes string `json:"admin_notes"`
	}
	decode(t, resp, &noted)
	if noted.AdminNotes != "fragile, double-box" {
		t.Fatalf("notes not persisted: %q", noted.AdminNotes)
	}
}

func TestCheckoutEmptyCartOverAPI(t *testing.T) {
	app, _ := newApp(t)
	resp, err := app.Test(jsonReq(t, "POST", "/api/orders", bearer(t, "u-bob"), shippingBody))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty cart: want 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, resp, &body)
	if body.Error != "Cart is empty" {
		t.Fatalf("unexpected error message %q", body.Error)
	}
}

func TestCheckoutRejectsBadShipping(t *testing.T) {
	app, _ := newApp(t)
	alice := bearer(t, "u-alice")

	resp, err := app.Test(jsonReq(t, "POST", "/api/cart", alice, `{"product":"prod-tshirt","quantity":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("cart add: want 201, got %d", resp.StatusCode)
	}

	// Non-numeric pincode fails validation before checkout runs.
	bad := strings.Replace(shippingBody, "411001", "not-a-pin", 1)
	resp, err = app.Test(jsonReq(t, "POST", "/api/orders", alice, bad))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad pincode: want 400, got %d", resp.StatusCode)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	app, db := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/availability?product=prod-headphones", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
		Qty    int    `json:"qty"`
	}
	decode(t, resp, &body)
	if body.Status != "IN_STOCK" || body.Qty != 50 {
		t.Fatalf("want IN_STOCK(50), got %s(%d)", body.Status, body.Qty)
	}

	if _, err := db.Exec(`UPDATE products SET stock=2 WHERE id='prod-headphones'`); err != nil {
		t.Fatal(err)
	}
	resp, err = app.Test(httptest.NewRequest("GET", "/api/availability?product=prod-headphones", nil))
	if err != nil {
		t.Fatal(err)
	}
	decode(t, resp, &body)
	if body.Status != "LOW_STOCK" {
		t.Fatalf("want LOW_STOCK, got %s", body.Status)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/availability?product=prod-nope", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product: want 404, got %d", resp.StatusCode)
	}
}
