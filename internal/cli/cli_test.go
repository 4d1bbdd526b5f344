package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/clock"
)

const (
	fixtures = "../seed/testdata/fixtures.yaml"
	ownerID  = "0b8f1c2e-4a61-4f3e-9a57-1d2c3b4a5e60"
	benID    = "5c3d2e1f-7b8a-4c9d-8e0f-a1b2c3d4e5f6"
	cleoID   = "6d4e3f20-8c9b-4dae-9f10-b2c3d4e5f607"
	groupID  = "9e8d7c6b-5a49-4382-a716-2f1e0d9c8b7a"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("IDEMPOTENCY_BACKEND", "memory")
	t.Setenv("STORE_BREAKER", "off")
	t.Setenv("BUDGET_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	clk := memclock.NewManualClock(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))
	cmd := NewRootCommand(&out, clk)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeed_ReportsCounts(t *testing.T) {
	out, err := run(t, "seed", "--file", fixtures)
	require.NoError(t, err)
	assert.Equal(t, "seeded 3 profiles, 1 groups, 3 trips (0 skipped)\n", out)
}

func TestStatus_Text(t *testing.T) {
	out, err := run(t, "status", "--fixtures", fixtures, "--profile", ownerID)
	require.NoError(t, err)
	assert.Contains(t, out, "380.00")
	assert.Contains(t, out, "76.00%")
	assert.Contains(t, out, "Budget at 76% - monitor spending")
}

func TestStatus_JSON(t *testing.T) {
	out, err := run(t, "status", "--fixtures", fixtures, "--profile", benID, "-o", "json")
	require.NoError(t, err)

	var v statusView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, statusView{
		ProfileID:       benID,
		MonthlyUsage:    "120.40",
		Limit:           "300.00",
		UsagePercentage: "40.13",
		RemainingBudget: "179.60",
		Alerts:          []string{},
	}, v)
}

func TestUsage_AsOfPreviousMonth(t *testing.T) {
	out, err := run(t, "usage", "--fixtures", fixtures, "--profile", cleoID, "--as-of", "2025-02-10")
	require.NoError(t, err)
	assert.Equal(t, "99.00\n", out)

	out, err = run(t, "usage", "--fixtures", fixtures, "--profile", cleoID)
	require.NoError(t, err)
	assert.Equal(t, "0.00\n", out)

	_, err = run(t, "usage", "--fixtures", fixtures, "--profile", cleoID, "--as-of", "10/02/2025")
	require.Error(t, err)
}

func TestAlerts_None(t *testing.T) {
	out, err := run(t, "alerts", "--fixtures", fixtures, "--profile", benID)
	require.NoError(t, err)
	assert.Equal(t, "no alerts\n", out)
}

func TestCheck_Decisions(t *testing.T) {
	out, err := run(t, "check", "--fixtures", fixtures, "--profile", ownerID, "--cost", "100")
	require.NoError(t, err)
	assert.Equal(t, "warn: new total 480.00 (96.00% of limit)\n", out)

	out, err = run(t, "check", "--fixtures", fixtures, "--profile", ownerID, "--cost", "200")
	require.NoError(t, err)
	assert.Equal(t, "block: new total 580.00 (over by 80.00)\n", out)

	out, err = run(t, "check", "--fixtures", fixtures, "--profile", ownerID, "--cost", "10")
	require.NoError(t, err)
	assert.Equal(t, "allow: new total 390.00\n", out)

	_, err = run(t, "check", "--fixtures", fixtures, "--profile", ownerID, "--cost", "ten")
	require.Error(t, err)
}

func TestOverview_OwnerOnly(t *testing.T) {
	out, err := run(t, "overview", "--fixtures", fixtures, "--group", groupID, "--owner", ownerID, "-o", "json")
	require.NoError(t, err)

	var v struct {
		GroupUsage string       `json:"groupUsage"`
		Month      string       `json:"month"`
		Drivers    []statusView `json:"drivers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "120.40", v.GroupUsage)
	assert.Equal(t, "2025-03", v.Month)
	require.Len(t, v.Drivers, 2)
	assert.Equal(t, benID, v.Drivers[0].ProfileID)
	assert.Equal(t, cleoID, v.Drivers[1].ProfileID)

	_, err = run(t, "overview", "--fixtures", fixtures, "--group", groupID, "--owner", benID)
	require.Error(t, err)
}

func TestUnknownProfile_Fails(t *testing.T) {
	_, err := run(t, "status", "--profile", "missing")
	require.Error(t, err)
}

func TestOutputFlag_Validated(t *testing.T) {
	_, err := run(t, "alerts", "--profile", ownerID, "-o", "yaml")
	require.Error(t, err)
}
