package resources

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAt(t *testing.T) {
	event := map[string]any{"at": "2025-03-01T10:30:00Z", "by": map[string]any{"id": "usr-1"}}
	got := formatAt(event)
	assert.NotEqual(t, "-", got)
	assert.Contains(t, got, "2025")

	assert.Equal(t, "-", formatAt(nil))
	assert.Equal(t, "-", formatAt(map[string]any{"by": "usr-1"}))
	assert.Equal(t, "-", formatAt("2025-03-01T10:30:00Z"))
}

func TestFormatBy(t *testing.T) {
	event := map[string]any{"by": map[string]any{"id": "usr-1", "name": "Ops"}}
	assert.Equal(t, "usr-1 - Ops", formatBy(event))
	assert.Equal(t, "-", formatBy(nil))
	assert.Equal(t, "-", formatBy(map[string]any{"at": "2025-03-01T10:30:00Z"}))
}

func TestFormatTimestampPassesThroughUnparseable(t *testing.T) {
	// Some endpoints return timestamps in a non-RFC3339 shape; those are
	// shown as-is rather than dropped.
	assert.Equal(t, "yesterday", formatTimestamp("yesterday"))
	assert.Equal(t, "-", formatTimestamp(42))
	assert.Contains(t, formatTimestamp("2025-03-01T10:30:00Z"), "/2025")
}

func TestFormatStatus(t *testing.T) {
	assert.Contains(t, formatStatus("active"), "active")
	assert.Contains(t, formatStatus("deleted"), "deleted")
	assert.Contains(t, formatStatus("disabled"), "disabled")
	assert.Contains(t, formatStatus("draft"), "draft")
	assert.Equal(t, "-", formatStatus(nil))
}

func TestFormatObjectLabel(t *testing.T) {
	assert.Equal(t, "acc-1 - SWO", formatObjectLabel(map[string]any{"id": "acc-1", "name": "SWO"}))
	assert.Equal(t, "-", formatObjectLabel(nil))
	assert.Equal(t, "-", formatObjectLabel(map[string]any{}))
	assert.Equal(t, "-", formatObjectLabel("acc-1"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "EUR - Euro", formatCurrency("EUR"))
	assert.Equal(t, "XYZ", formatCurrency("XYZ"), "unknown codes pass through")
	assert.Equal(t, "-", formatCurrency(nil))
}

func TestCurrencyOptions(t *testing.T) {
	options := CurrencyOptions()
	assert.NotEmpty(t, options)

	codes := make([]string, len(options))
	for i, opt := range options {
		codes[i] = opt.Value
		assert.True(t, strings.HasPrefix(opt.Label, opt.Value+" - "), opt.Label)
		assert.NotContains(t, excludedCurrencies, opt.Value)
	}
	assert.True(t, sort.StringsAreSorted(codes))
	assert.Contains(t, codes, "USD")
	assert.Contains(t, codes, "EUR")
	assert.NotContains(t, codes, "XAU", "funds and metals are not billing currencies")
	assert.NotContains(t, codes, "XXX")
}
