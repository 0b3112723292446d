package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func uploadReq(t *testing.T, filename, contents, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/api/admin/products/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", token)
	return req
}

func TestImportEndpoint(t *testing.T) {
	app, db := newApp(t)
	admin := bearer(t, "u-admin")

	csv := `name,price,stock,category
Gaming Mouse,1499.00,25,Electronics
Broken Row,,5,Electronics
USB Hub,999.00,40,Electronics
`
	resp, err := app.Test(uploadReq(t, "catalog.csv", csv, admin))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import: want 200, got %d", resp.StatusCode)
	}
	var report struct {
		Imported int `json:"importedCount"`
		Errors   []struct {
			Row     int    `json:"row"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decode(t, resp, &report)
	if report.Imported != 2 {
		t.Fatalf("want 2 imported, got %d", report.Imported)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 2 {
		t.Fatalf("want one error on row 2, got %+v", report.Errors)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products WHERE slug='gaming-mouse'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("imported product missing")
	}
}

func TestImportEndpointRejectsBadUploads(t *testing.T) {
	app, _ := newApp(t)
	admin := bearer(t, "u-admin")

	// Unsupported extension.
	resp, err := app.Test(uploadReq(t, "catalog.xlsx", "junk", admin))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("xlsx: want 400, got %d", resp.StatusCode)
	}

	// Files broken at the payload level are the caller's problem: 400 with
	// a message, never a 500.
	broken := []struct {
		filename string
		contents string
	}{
		{"catalog.json", `{not-json`},
		{"catalog.json", `{"name":"Pen","price":"49.00"}`}, // object, not array
		{"catalog.csv", "name,stock\nPen,5\n"},             // price column missing
	}
	for _, tc := range broken {
		resp, err := app.Test(uploadReq(t, tc.filename, tc.contents, admin))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %q: want 400, got %d", tc.filename, tc.contents, resp.StatusCode)
		}
		var body struct {
			Error string `json:"error"`
		}
		decode(t, resp, &body)
		if body.Error == "" || body.Error == "Something went wrong. Please try again." {
			t.Fatalf("%s: error message must name the input problem, got %q", tc.filename, body.Error)
		}
	}

	// No file field at all.
	req := httptest.NewRequest("POST", "/api/admin/products/import", nil)
	req.Header.Set("Authorization", admin)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing file: want 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, resp, &body)
	if body.Error != "No file provided" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestAdminProductCRUD(t *testing.T) {
	app, db := newApp(t)
	admin := bearer(t, "u-admin")

	// Create
	resp, err := app.Test(jsonReq(t, "POST", "/api/admin/products", admin, `{
	  "name": "Desk Lamp",
	  "category": "cat-electronics",
	  "price": "1299.00",
	  "stock": 15
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: want 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID     string `json:"id"`
		Slug   string `json:"slug"`
		Active bool   `json:"is_active"`
	}
	decode(t, resp, &created)
	if created.Slug != "desk-lamp" {
		t.Fatalf("slug not derived from name: %q", created.Slug)
	}
	if !created.Active {
		t.Fatal("new product should default to active")
	}

	// Unknown category is rejected.
	resp, err = app.Test(jsonReq(t, "POST", "/api/admin/products", admin, `{
	  "name": "Orphan", "category": "cat-nope", "price": "1.00"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown category: want 400, got %d", resp.StatusCode)
	}

	// Update cannot change stock; it belongs to the inventory ledger.
	resp, err = app.Test(jsonReq(t, "PUT", "/api/admin/products/"+created.ID, admin, `{
	  "name": "Desk Lamp v2",
	  "category": "cat-electronics",
	  "price": "1399.00",
	  "stock": 9999
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: want 200, got %d", resp.StatusCode)
	}
	var updated struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}
	decode(t, resp, &updated)
	if updated.Name != "Desk Lamp v2" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Stock != 15 {
		t.Fatalf("stock must not change via product update, got %d", updated.Stock)
	}

	// Delete is a soft disable; the row survives for order history.
	resp, err = app.Test(jsonReq(t, "DELETE", "/api/admin/products/"+created.ID, admin, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: want 204, got %d", resp.StatusCode)
	}
	var active bool
	if err := db.Get(&active, `SELECT is_active FROM products WHERE id=?`, created.ID); err != nil {
		t.Fatal(err)
	}
	if active {
		t.Fatal("disabled product still active")
	}

	// Categories listing for the product form.
	resp, err = app.Test(jsonReq(t, "GET", "/api/admin/categories", admin, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categories: want 200, got %d", resp.StatusCode)
	}
}
