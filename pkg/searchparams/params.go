package searchparams

import (
	"encoding/json"
	"iter"
	"net/url"
	"slices"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	kerrors "github.com/vango-dev/urlkit/internal/errors"
)

// Sentinel errors for errors.Is checks.
var (
	ErrArity        = kerrors.New(kerrors.CodeArity)
	ErrTypeMismatch = kerrors.New(kerrors.CodeTypeMismatch)
)

// Pair is a single key/value entry.
type Pair struct {
	Key   string
	Value string
}

// Params is an ordered multi-map of query string pairs.
type Params struct {
	pairs    []Pair
	onUpdate func(query string)
}

// New creates a Params from init, which may be:
//   - nil or "": an empty container
//   - string: a query string, with an optional leading "?"
//   - *Params or Params: a copy of its entries
//   - [][]string: pairs; every element must have length 2
//   - [][2]string or []Pair: pairs
//   - map[string]string, map[string]any, url.Values: one pair per value,
//     keys in ascending order
//   - a struct or pointer to struct: exported fields in declaration order,
//     named by the `url` tag or the lowercased field name
//
// Any other type fails with ErrTypeMismatch.
func New(init any) (*Params, error) {
	pairs, err := pairsFrom(init)
	if err != nil {
		return nil, err
	}
	return &Params{pairs: pairs}, nil
}

// MustNew is like New but panics on error.
func MustNew(init any) *Params {
	p, err := New(init)
	if err != nil {
		panic(err)
	}
	return p
}

// OnUpdate registers fn as the update subscriber, replacing any previous
// one. A nil fn removes the subscriber.
func (p *Params) OnUpdate(fn func(query string)) {
	p.onUpdate = fn
}

// notify reports the current serialization to the subscriber.
func (p *Params) notify() {
	if p.onUpdate != nil {
		p.onUpdate(p.String())
	}
}

// Append adds a pair at the end.
func (p *Params) Append(key, value string) {
	p.pairs = append(p.pairs, Pair{Key: key, Value: value})
	p.notify()
}

// Delete removes every pair with the given key.
func (p *Params) Delete(key string) {
	p.pairs = slices.DeleteFunc(p.pairs, func(pr Pair) bool {
		return pr.Key == key
	})
	p.notify()
}

// DeleteValue removes only the pairs matching both key and value.
func (p *Params) DeleteValue(key, value string) {
	p.pairs = slices.DeleteFunc(p.pairs, func(pr Pair) bool {
		return pr.Key == key && pr.Value == value
	})
	p.notify()
}

// Get returns the first value for key.
func (p *Params) Get(key string) (string, bool) {
	for _, pr := range p.pairs {
		if pr.Key == key {
			return pr.Value, true
		}
	}
	return "", false
}

// GetAll returns every value for key in insertion order.
func (p *Params) GetAll(key string) []string {
	values := []string{}
	for _, pr := range p.pairs {
		if pr.Key == key {
			values = append(values, pr.Value)
		}
	}
	return values
}

// Has reports whether any pair has the given key.
func (p *Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// HasValue reports whether a pair matches both key and value.
func (p *Params) HasValue(key, value string) bool {
	return slices.Contains(p.pairs, Pair{Key: key, Value: value})
}

// Set replaces the value of the first pair with key and removes every
// later pair with the same key. If key is absent the pair is appended.
func (p *Params) Set(key, value string) {
	found := false
	out := p.pairs[:0]
	for _, pr := range p.pairs {
		if pr.Key != key {
			out = append(out, pr)
			continue
		}
		if !found {
			found = true
			out = append(out, Pair{Key: key, Value: value})
		}
	}
	clear(p.pairs[len(out):])
	p.pairs = out
	if !found {
		p.pairs = append(p.pairs, Pair{Key: key, Value: value})
	}
	p.notify()
}

// Sort stably sorts pairs by key, comparing UTF-16 code units.
func (p *Params) Sort() {
	slices.SortStableFunc(p.pairs, func(a, b Pair) int {
		return compareCodeUnits(a.Key, b.Key)
	})
	p.notify()
}

// SortCollated stably sorts pairs by key using the collation rules of
// the given language.
func (p *Params) SortCollated(tag language.Tag) {
	c := collate.New(tag)
	slices.SortStableFunc(p.pairs, func(a, b Pair) int {
		return c.CompareString(a.Key, b.Key)
	})
	p.notify()
}

// Replace discards all pairs and re-parses query.
func (p *Params) Replace(query string) {
	p.pairs = parseQuery(query)
	p.notify()
}

// Entries returns a snapshot of all pairs.
func (p *Params) Entries() []Pair {
	return slices.Clone(p.pairs)
}

// Keys returns a snapshot of all keys, duplicates included.
func (p *Params) Keys() []string {
	keys := make([]string, len(p.pairs))
	for i, pr := range p.pairs {
		keys[i] = pr.Key
	}
	return keys
}

// Values returns a snapshot of all values.
func (p *Params) Values() []string {
	values := make([]string, len(p.pairs))
	for i, pr := range p.pairs {
		values[i] = pr.Value
	}
	return values
}

// All returns an iterator over the pairs as they are at call time.
func (p *Params) All() iter.Seq2[string, string] {
	snapshot := p.Entries()
	return func(yield func(string, string) bool) {
		for _, pr := range snapshot {
			if !yield(pr.Key, pr.Value) {
				return
			}
		}
	}
}

// ForEach calls fn for each pair in order. It reads live storage, so
// mutations made by fn are seen by later calls.
func (p *Params) ForEach(fn func(key, value string)) {
	for i := 0; i < len(p.pairs); i++ {
		pr := p.pairs[i]
		fn(pr.Key, pr.Value)
	}
}

// Size returns the number of pairs.
func (p *Params) Size() int {
	return len(p.pairs)
}

// String serializes the pairs as key=value joined by "&".
func (p *Params) String() string {
	var b strings.Builder
	for i, pr := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pr.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pr.Value))
	}
	return b.String()
}

// MarshalJSON encodes the serialized query string.
func (p *Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a JSON string as a query string. The update
// subscriber, if any, is kept and notified.
func (p *Params) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p.Replace(s)
	return nil
}

// compareCodeUnits orders strings by their UTF-16 encoding.
func compareCodeUnits(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
