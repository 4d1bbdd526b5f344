package testutil

import (
	"context"
	"os"
	"testing"

	fs "cloud.google.com/go/firestore"
)

// OpenEmulatorClient connects to the Firestore emulator.
// The test is skipped when FIRESTORE_EMULATOR_HOST is unset.
func OpenEmulatorClient(t *testing.T) *fs.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping firestore integration test")
	}
	project := os.Getenv("FIRESTORE_PROJECT_ID")
	if project == "" {
		project = "fuel-budget-test"
	}
	c, err := fs.NewClient(context.Background(), project)
	if err != nil {
		t.Fatalf("firestore.NewClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
