package models

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

// SoundcloudURL is a persisted track link; URL is the unique key.
type SoundcloudURL struct {
	URL     string `json:"url"`
	UIOrder Order  `json:"uiOrder"`
}

// URLBody is the request body for add and delete.
type URLBody struct {
	URL string `json:"url"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BearerToken is the object form of a login response.
type BearerToken struct {
	BearerToken string `json:"bearerToken"`
}

// Order is a display position.
//
// The backend stores integers, but a local edit may hold any number including NaN,
// so the value is float64-backed. Integral values encode as JSON integers and non-finite values as null.
type Order float64

// NaN reports whether o is not a number.
func (o Order) NaN() bool { return math.IsNaN(float64(o)) }

func (o Order) String() string {
	f := float64(o)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON implements [json.Marshaler].
func (o Order) MarshalJSON() ([]byte, error) {
	f := float64(o)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	if f == 0 {
		return []byte("0"), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// UnmarshalJSON implements [json.Unmarshaler]; null decodes to NaN.
func (o *Order) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Order(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*o = Order(f)
	return nil
}

// ParseOrder converts free text typed into an order field the way a numeric form input coerces it:
// surrounding whitespace is ignored, blank input is 0, 0x/0o/0b prefixes are honored,
// "Infinity" is accepted, and anything else that is not a decimal number is NaN.
func ParseOrder(s string) Order {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	unsigned := strings.TrimLeft(s, "+-")
	switch {
	case unsigned == "Infinity" && len(s)-len(unsigned) <= 1:
		if s[0] == '-' {
			return Order(math.Inf(-1))
		}
		return Order(math.Inf(1))
	case unsigned != "" && strings.ContainsRune("iInN", rune(unsigned[0])):
		return Order(math.NaN())
	}

	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		n, err := strconv.ParseUint(s[2:], prefixBase(s[1]), 64)
		if err != nil {
			return Order(math.NaN())
		}
		return Order(float64(n))
	}

	if strings.ContainsAny(s, "_xXpP") {
		return Order(math.NaN())
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Order(math.NaN())
	}
	return Order(f)
}

func prefixBase(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	default:
		return 2
	}
}

// CompareOrder orders a before b when a.UIOrder is smaller; NaN sorts first.
func CompareOrder(a, b SoundcloudURL) int {
	return cmp.Compare(a.UIOrder, b.UIOrder)
}

// SortByOrder returns a copy of urls stably sorted ascending by UIOrder. A nil input stays nil.
func SortByOrder(urls []SoundcloudURL) []SoundcloudURL {
	if urls == nil {
		return nil
	}
	sorted := slices.Clone(urls)
	slices.SortStableFunc(sorted, CompareOrder)
	return sorted
}

// WithOrder returns a copy of urls where every record matching url has its UIOrder set to order.
func WithOrder(urls []SoundcloudURL, url string, order Order) []SoundcloudURL {
	if urls == nil {
		return nil
	}
	updated := slices.Clone(urls)
	for i := range updated {
		if updated[i].URL == url {
			updated[i].UIOrder = order
		}
	}
	return updated
}
