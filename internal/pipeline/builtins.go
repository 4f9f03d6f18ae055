package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// builtinFunc is a pure, synchronous transform. Returning an error
// logs "error: ..." and passes the input value through unchanged.
type builtinFunc func(v any, pctx *Context, args map[string]any) (any, error)

// builtins is the closed set of built-in step kinds.
var builtins = map[string]builtinFunc{
	"trim":            builtinTrim,
	"normalize_space": builtinNormalizeSpace,
	"regex":           builtinRegex,
	"to_number":       builtinToNumber,
	"to_price":        builtinToPrice,
}

// Price is a typed monetary value produced by the to_price step.
// Currency is empty when neither configured nor detectable.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func builtinTrim(v any, _ *Context, _ map[string]any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return v, nil
}

func builtinNormalizeSpace(v any, _ *Context, _ map[string]any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.Join(strings.Fields(s), " "), nil
	}
	return v, nil
}

// builtinRegex returns the given capture group of the first match; the
// input passes through unchanged when nothing matches. Supported flag:
// "i" for case-insensitive.
func builtinRegex(v any, _ *Context, args map[string]any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	pattern := argString(args, "pattern", "")
	if pattern == "" {
		return nil, fmt.Errorf("regex step requires a pattern")
	}
	if strings.Contains(argString(args, "flags", ""), "i") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return v, nil
	}
	group := argInt(args, "group", 1)
	if group < 0 || group >= len(m) {
		return nil, fmt.Errorf("no capture group %d", group)
	}
	return m[group], nil
}

func builtinToNumber(v any, _ *Context, args map[string]any) (any, error) {
	return toNumber(v, argBool(args, "allow_commas", true)), nil
}

func builtinToPrice(v any, _ *Context, args map[string]any) (any, error) {
	return toPrice(v, argString(args, "currency", "auto")), nil
}

var numberRe = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// toNumber extracts the first numeric literal from the stringified
// value, optionally stripping thousands separators first. Returns nil
// when no number is present.
func toNumber(v any, allowCommas bool) any {
	if v == nil {
		return nil
	}
	s := stringify(v)
	if allowCommas {
		s = strings.ReplaceAll(s, ",", "")
	}
	lit := numberRe.FindString(s)
	if lit == "" {
		return nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil
	}
	return f
}

// toPrice wraps toNumber's result with a currency: the explicit
// setting, or auto-detected from the original text.
func toPrice(v any, currency string) any {
	num := toNumber(v, true)
	if num == nil {
		return nil
	}
	cur := currency
	if cur == "" || cur == "auto" {
		cur = guessCurrency(stringify(v))
	}
	return &Price{Amount: num.(float64), Currency: cur}
}

func guessCurrency(text string) string {
	switch {
	case strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(text, "$"):
		return "USD"
	case strings.Contains(text, "£"):
		return "GBP"
	default:
		return ""
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
