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
	ProviderName = "tourbook-api"
	ConsumerName = "tourbook-client"

	StateCatalogSeeded = "the tour catalog is seeded"
	StateTokenStale    = "the access token has expired"
	StateRefreshCookie = "the client holds a valid refresh cookie"
	StateNoBookings    = "the user has no bookings"
)

const (
	ExistingTourSlug     = "everest-base-camp"
	MissingTourSlug      = "no-such-tour"
	StaleAccessToken     = "tok-stale"
	RefreshedAccessToken = "tok-fresh"
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

// PactFile returns the canonical pact file path for the tourbook client.
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

// ExampleTour provides stable tour data for pact interactions.
func ExampleTour() map[string]any {
	return map[string]any{
		"id":           "1",
		"slug":         ExistingTourSlug,
		"title":        "Everest Base Camp Trek",
		"location":     "Solukhumbu",
		"category":     "Trekking",
		"price":        1250.0,
		"durationDays": 14,
		"rating":       4.9,
		"reviewCount":  2,
	}
}

// ExampleUser provides stable user data for the refresh response.
func ExampleUser() map[string]any {
	return map[string]any{
		"id":    "1",
		"name":  "Administrator",
		"email": "admin@tourbook.local",
		"role":  "ADMIN",
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
