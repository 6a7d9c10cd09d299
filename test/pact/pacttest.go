//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "counter-api"
	ConsumerName = "counter-panel"

	StateProductsBaseline = "products baseline"
	StateProductExists    = "product with id 2 exists"
	StateOrdersBaseline   = "one pending and one delivered order"
	StateOrderMissing     = "no order with id 404"
)

const (
	ExistingProductID = 2
	PendingOrderID    = 1
	DeliveredOrderID  = 2
	MissingOrderID    = 404
)

const (
	exampleCreatedAt = "2024-06-12T19:30:00Z"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the panel consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the product the baseline state starts with.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":        1,
		"name":      "SmashBoss Double",
		"price":     10.5,
		"category":  "Panini",
		"available": true,
	}
}

// ExampleDraftPayload is the body the panel posts to create a product.
func ExampleDraftPayload() map[string]any {
	return map[string]any{
		"name":     "Onion Rings",
		"price":    4.5,
		"category": "Fritti",
	}
}

// ExampleOrderPayload is the pending order of the orders state.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"id":           PendingOrderID,
		"createdAt":    exampleCreatedAt,
		"customerName": "Marco R.",
		"status":       "Pending",
		"total":        21,
		"items": []map[string]any{{
			"name":      "SmashBoss Double",
			"quantity":  2,
			"unitPrice": 10.5,
			"note":      "Senza cipolla",
		}},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
