package searchparams

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	kerrors "github.com/vango-dev/urlkit/internal/errors"
)

// parseQuery splits a query string into pairs. A leading "?" is dropped,
// empty pieces between "&" are skipped and each piece splits at its first
// "=" only.
func parseQuery(query string) []Pair {
	query = strings.TrimPrefix(query, "?")
	var pairs []Pair
	for query != "" {
		var piece string
		piece, query, _ = strings.Cut(query, "&")
		if piece == "" {
			continue
		}
		key, value, _ := strings.Cut(piece, "=")
		pairs = append(pairs, Pair{Key: decodeComponent(key), Value: decodeComponent(value)})
	}
	return pairs
}

// decodeComponent turns "+" into a space and decodes %XX escapes.
// Malformed escapes are kept as literal text instead of failing the
// whole string, which url.QueryUnescape would do.
func decodeComponent(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// pairsFrom converts a New initializer into pairs.
func pairsFrom(init any) ([]Pair, error) {
	switch v := init.(type) {
	case nil:
		return nil, nil
	case string:
		return parseQuery(v), nil
	case *Params:
		if v == nil {
			return nil, nil
		}
		return v.Entries(), nil
	case Params:
		return v.Entries(), nil
	case []Pair:
		return append([]Pair(nil), v...), nil
	case [][2]string:
		pairs := make([]Pair, len(v))
		for i, kv := range v {
			pairs[i] = Pair{Key: kv[0], Value: kv[1]}
		}
		return pairs, nil
	case [][]string:
		pairs := make([]Pair, len(v))
		for i, kv := range v {
			if len(kv) != 2 {
				return nil, kerrors.New(kerrors.CodeArity).
					WithDetail(fmt.Sprintf("element %d has %d items", i, len(kv)))
			}
			pairs[i] = Pair{Key: kv[0], Value: kv[1]}
		}
		return pairs, nil
	case map[string]string:
		var pairs []Pair
		for _, k := range sortedKeys(v) {
			pairs = append(pairs, Pair{Key: k, Value: v[k]})
		}
		return pairs, nil
	case map[string]any:
		var pairs []Pair
		for _, k := range sortedKeys(v) {
			pairs = append(pairs, Pair{Key: k, Value: formatValue(reflect.ValueOf(v[k]))})
		}
		return pairs, nil
	case map[string][]string:
		return pairsFrom(url.Values(v))
	case url.Values:
		var pairs []Pair
		for _, k := range sortedKeys(v) {
			for _, val := range v[k] {
				pairs = append(pairs, Pair{Key: k, Value: val})
			}
		}
		return pairs, nil
	}

	rv := reflect.ValueOf(init)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		return structPairs(rv), nil
	}

	return nil, kerrors.New(kerrors.CodeTypeMismatch).WithDetail(fmt.Sprintf("got %T", init))
}

// structPairs emits one pair per exported field in declaration order.
func structPairs(v reflect.Value) []Pair {
	var pairs []Pair
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		// Get URL tag or use lowercase field name
		key := field.Tag.Get("url")
		if key == "" {
			key = strings.ToLower(field.Name)
		}
		if key == "-" {
			continue
		}

		pairs = append(pairs, Pair{Key: key, Value: formatValue(v.Field(i))})
	}
	return pairs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValue coerces a value to its string form.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return formatValue(v.Elem())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
