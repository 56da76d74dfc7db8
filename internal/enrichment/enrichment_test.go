package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang-sales-analytics-service/internal/models"
	pkgerrors "golang-sales-analytics-service/pkg/errors"

	"github.com/shopspring/decimal"
)

func TestDeriveProductKey(t *testing.T) {
	tests := []struct {
		productID string
		key       int
		ok        bool
	}{
		{"P102", 2, true},
		{"P172", 72, true},
		{"p102", 2, true},
		{"P1024", 24, true},
		{"PP102", 2, true},
		{"102", 2, true},
		{"P5", 0, false},
		{"P", 0, false},
		{"", 0, false},
		{"PX", 0, false},
		{"A102", 2, true},
		{"P10", 0, true},
	}

	for _, tt := range tests {
		key, ok := DeriveProductKey(tt.productID)
		if ok != tt.ok {
			t.Errorf("DeriveProductKey(%q): expected ok=%v, got %v", tt.productID, tt.ok, ok)
			continue
		}
		if ok && key != tt.key {
			t.Errorf("DeriveProductKey(%q): expected key %d, got %d", tt.productID, tt.key, key)
		}
	}
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: 2, Title: "Catalog Widget", Category: "tools", Brand: "Acme", Price: 9.99, Rating: 4.5},
		{ID: 72, Title: "Catalog Gadget", Category: "electronics", Brand: "Globex", Price: 19.99, Rating: 3.8},
	}
}

func transaction(id, productID string) models.TransactionRecord {
	return models.TransactionRecord{
		TransactionID: id,
		Date:          "2024-01-01",
		ProductID:     productID,
		ProductName:   "Widget",
		Quantity:      5,
		UnitPrice:     decimal.NewFromInt(10),
		CustomerID:    "C501",
		Region:        "West",
	}
}

func TestBuildProductMapping(t *testing.T) {
	mapping := BuildProductMapping(sampleProducts())

	if len(mapping) != 2 {
		t.Fatalf("Expected 2 mapped products, got %d", len(mapping))
	}
	if mapping[2].Category != "tools" {
		t.Errorf("Expected category tools for key 2, got %s", mapping[2].Category)
	}
}

func TestEnrichTransactions(t *testing.T) {
	mapping := BuildProductMapping(sampleProducts())
	records := []models.TransactionRecord{
		transaction("T1001", "P102"),
		transaction("T1002", "P172"),
		transaction("T1003", "P999"),
		transaction("T1004", "P5"),
	}

	enriched := EnrichTransactions(records, mapping)
	if len(enriched) != 4 {
		t.Fatalf("Expected 4 enriched records, got %d", len(enriched))
	}

	if !enriched[0].APIMatch {
		t.Error("Expected P102 to match catalog key 2")
	}
	if enriched[0].APICategory == nil || *enriched[0].APICategory != "tools" {
		t.Errorf("Expected P102 category tools, got %v", enriched[0].APICategory)
	}
	if enriched[0].APIRating == nil || *enriched[0].APIRating != 4.5 {
		t.Errorf("Expected P102 rating 4.5, got %v", enriched[0].APIRating)
	}

	if !enriched[1].APIMatch {
		t.Error("Expected P172 to match catalog key 72")
	}

	if enriched[2].APIMatch {
		t.Error("Expected P999 to stay unmatched (no catalog entry for 99)")
	}
	if enriched[2].APICategory != nil || enriched[2].APIBrand != nil || enriched[2].APIRating != nil {
		t.Error("Expected unmatched record to carry no API fields")
	}

	if enriched[3].APIMatch {
		t.Error("Expected P5 to stay unmatched (no derivable key)")
	}

	if MatchedCount(enriched) != 2 {
		t.Errorf("Expected matched count 2, got %d", MatchedCount(enriched))
	}
}

func TestEnrichTransactionsEmptyMapping(t *testing.T) {
	records := []models.TransactionRecord{
		transaction("T1001", "P102"),
		transaction("T1002", "P172"),
	}

	enriched := EnrichTransactions(records, map[int]models.Product{})
	for _, e := range enriched {
		if e.APIMatch {
			t.Errorf("Expected %s to stay unmatched with empty mapping", e.TransactionID)
		}
	}
}

func TestUnmatchedProductIDs(t *testing.T) {
	enriched := []models.EnrichedTransaction{
		{TransactionRecord: transaction("T1", "P999"), APIMatch: false},
		{TransactionRecord: transaction("T2", "P102"), APIMatch: true},
		{TransactionRecord: transaction("T3", "P500"), APIMatch: false},
		{TransactionRecord: transaction("T4", "P999"), APIMatch: false},
	}

	ids := UnmatchedProductIDs(enriched)
	expected := []string{"P500", "P999"}
	if !reflect.DeepEqual(ids, expected) {
		t.Errorf("Expected unmatched IDs %v, got %v", expected, ids)
	}
}

func TestFetchProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("Expected /products path, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "100" {
			t.Errorf("Expected limit=100, got %s", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":2,"title":"Catalog Widget","category":"tools","brand":"Acme","price":9.99,"rating":4.5}]}`))
	}))
	defer server.Close()

	client := NewClient(&CatalogConfig{BaseURL: server.URL, Timeout: 2 * time.Second, Limit: 100})
	products, err := client.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("Expected successful fetch, got error: %v", err)
	}

	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}
	if products[0].ID != 2 || products[0].Category != "tools" || products[0].Rating != 4.5 {
		t.Errorf("Unexpected product: %+v", products[0])
	}
}

func TestFetchProductsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(&CatalogConfig{BaseURL: server.URL, Timeout: 2 * time.Second, Limit: 100})
	_, err := client.FetchProducts(context.Background())
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}

	perr, ok := pkgerrors.AsPipelineError(err)
	if !ok {
		t.Fatalf("Expected a pipeline error, got %T", err)
	}
	if perr.Code != pkgerrors.CodeBadResponse {
		t.Errorf("Expected code %s, got %s", pkgerrors.CodeBadResponse, perr.Code)
	}
}

func TestFetchProductsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": [`))
	}))
	defer server.Close()

	client := NewClient(&CatalogConfig{BaseURL: server.URL, Timeout: 2 * time.Second, Limit: 100})
	_, err := client.FetchProducts(context.Background())
	if err == nil {
		t.Fatal("Expected error for malformed payload")
	}
}

func TestFetchProductsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"products":[]}`))
	}))
	defer server.Close()

	client := NewClient(&CatalogConfig{BaseURL: server.URL, Timeout: 50 * time.Millisecond, Limit: 100})
	_, err := client.FetchProducts(context.Background())
	if err == nil {
		t.Fatal("Expected error when the server outlasts the timeout")
	}
}

func TestCatalogConfigValidate(t *testing.T) {
	config := DefaultCatalogConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}

	bad := &CatalogConfig{BaseURL: "", Timeout: time.Second, Limit: 100}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for empty base URL")
	}

	bad = &CatalogConfig{BaseURL: "https://example.com", Timeout: 0, Limit: 100}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for zero timeout")
	}
}

func TestWriteEnrichedFile(t *testing.T) {
	category := "tools"
	brand := "Acme"
	rating := 4.5
	enriched := []models.EnrichedTransaction{
		{
			TransactionRecord: transaction("T1001", "P102"),
			APICategory:       &category,
			APIBrand:          &brand,
			APIRating:         &rating,
			APIMatch:          true,
		},
		{TransactionRecord: transaction("T1002", "P999")},
	}

	path := filepath.Join(t.TempDir(), "out", "enriched_sales_data.txt")
	if err := WriteEnrichedFile(path, enriched); err != nil {
		t.Fatalf("Expected write to succeed, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}

	header := strings.Split(lines[0], "|")
	if len(header) != 12 {
		t.Errorf("Expected 12 header columns, got %d", len(header))
	}
	if header[0] != "TransactionID" || header[11] != "API_Match" {
		t.Errorf("Unexpected header layout: %v", header)
	}

	matched := strings.Split(lines[1], "|")
	if matched[8] != "tools" || matched[9] != "Acme" || matched[10] != "4.5" || matched[11] != "true" {
		t.Errorf("Unexpected matched row API columns: %v", matched[8:])
	}

	unmatched := strings.Split(lines[2], "|")
	if unmatched[8] != "" || unmatched[9] != "" || unmatched[10] != "" || unmatched[11] != "false" {
		t.Errorf("Expected empty API columns for unmatched row, got %v", unmatched[8:])
	}
}
