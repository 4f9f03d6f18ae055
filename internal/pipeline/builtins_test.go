package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOne(t *testing.T, value any, step Step) (any, LogEntry) {
	t.Helper()
	r := New(Options{})
	defer r.Close()
	out, log := r.Run(value, []Step{step}, nil, false, nil)
	require.Len(t, log, 1)
	return out, log[0]
}

func TestTrim(t *testing.T) {
	out, entry := runOne(t, "  padded  ", Step{Kind: "trim"})
	assert.Equal(t, "padded", out)
	assert.Equal(t, "ok", entry.Outcome)
}

func TestTrimPassesNonStringsThrough(t *testing.T) {
	out, entry := runOne(t, 42.0, Step{Kind: "trim"})
	assert.Equal(t, 42.0, out)
	assert.Equal(t, "ok", entry.Outcome)
}

func TestNormalizeSpace(t *testing.T) {
	out, _ := runOne(t, " a \t b\n\nc ", Step{Kind: "normalize_space"})
	assert.Equal(t, "a b c", out)
}

func TestNormalizeSpaceIdempotent(t *testing.T) {
	once, _ := runOne(t, "  a   b  ", Step{Kind: "normalize_space"})
	twice, _ := runOne(t, once, Step{Kind: "normalize_space"})
	assert.Equal(t, once, twice)
}

func TestRegexFirstGroup(t *testing.T) {
	out, entry := runOne(t, "SKU: AB-1234", Step{
		Kind: "regex",
		Args: map[string]any{"pattern": `SKU:\s*(\S+)`},
	})
	assert.Equal(t, "AB-1234", out)
	assert.Equal(t, "ok", entry.Outcome)
}

func TestRegexExplicitGroup(t *testing.T) {
	out, _ := runOne(t, "12x34", Step{
		Kind: "regex",
		Args: map[string]any{"pattern": `(\d+)x(\d+)`, "group": 2},
	})
	assert.Equal(t, "34", out)
}

func TestRegexCaseInsensitiveFlag(t *testing.T) {
	out, _ := runOne(t, "Price: 10", Step{
		Kind: "regex",
		Args: map[string]any{"pattern": `price:\s*(\d+)`, "flags": "i"},
	})
	assert.Equal(t, "10", out)
}

func TestRegexNoMatchPassesThrough(t *testing.T) {
	out, entry := runOne(t, "nothing here", Step{
		Kind: "regex",
		Args: map[string]any{"pattern": `(\d+)`},
	})
	assert.Equal(t, "nothing here", out)
	assert.Equal(t, "ok", entry.Outcome)
}

func TestRegexMissingPatternIsError(t *testing.T) {
	out, entry := runOne(t, "x", Step{Kind: "regex"})
	assert.Equal(t, "x", out, "value unchanged on error")
	assert.Contains(t, entry.Outcome, "error:")
}

func TestRegexBadGroupIsError(t *testing.T) {
	out, entry := runOne(t, "a1", Step{
		Kind: "regex",
		Args: map[string]any{"pattern": `(\d)`, "group": 5},
	})
	assert.Equal(t, "a1", out)
	assert.Contains(t, entry.Outcome, "error:")
}

func TestToNumber(t *testing.T) {
	out, _ := runOne(t, "1,234.50", Step{Kind: "to_number"})
	assert.Equal(t, 1234.5, out)
}

func TestToNumberWithoutCommaStripping(t *testing.T) {
	out, _ := runOne(t, "1,234", Step{
		Kind: "to_number",
		Args: map[string]any{"allow_commas": false},
	})
	assert.Equal(t, 1.0, out)
}

func TestToNumberNegative(t *testing.T) {
	out, _ := runOne(t, "delta -3.5 units", Step{Kind: "to_number"})
	assert.Equal(t, -3.5, out)
}

func TestToNumberNoDigitsYieldsNil(t *testing.T) {
	out, entry := runOne(t, "no digits here", Step{Kind: "to_number"})
	assert.Nil(t, out)
	assert.Equal(t, "ok", entry.Outcome)
}

func TestToPriceDetectsCurrency(t *testing.T) {
	out, _ := runOne(t, "$12.00", Step{Kind: "to_price"})
	require.IsType(t, &Price{}, out)
	price := out.(*Price)
	assert.Equal(t, 12.0, price.Amount)
	assert.Equal(t, "USD", price.Currency)
}

func TestToPriceExplicitCurrency(t *testing.T) {
	out, _ := runOne(t, "12,50", Step{
		Kind: "to_price",
		Args: map[string]any{"currency": "EUR"},
	})
	price := out.(*Price)
	assert.Equal(t, 1250.0, price.Amount)
	assert.Equal(t, "EUR", price.Currency)
}

func TestToPriceUnknownSymbol(t *testing.T) {
	out, _ := runOne(t, "12 kr", Step{Kind: "to_price"})
	price := out.(*Price)
	assert.Equal(t, "", price.Currency)
}

func TestToPriceNoNumberYieldsNil(t *testing.T) {
	out, _ := runOne(t, "call for price", Step{Kind: "to_price"})
	assert.Nil(t, out)
}

func TestPriceCleanupChain(t *testing.T) {
	r := New(Options{})
	defer r.Close()

	steps := []Step{
		{Kind: "trim"},
		{Kind: "to_price"},
	}
	out, log := r.Run("  $1,234.50 USD  ", steps, nil, false, nil)

	require.IsType(t, &Price{}, out)
	price := out.(*Price)
	assert.Equal(t, 1234.5, price.Amount)
	assert.Equal(t, "USD", price.Currency)

	require.Len(t, log, 2)
	assert.Equal(t, LogEntry{Step: "trim", Outcome: "ok"}, log[0])
	assert.Equal(t, LogEntry{Step: "to_price", Outcome: "ok"}, log[1])
}
