// Package install defines the URL and URLSearchParams constructors in a
// host registry when they are not already present.
//
// The registry is injected, so the parsing packages never touch global
// state. MapRegistry is an in-memory implementation.
package install

import (
	"errors"
	"fmt"
	"sync"

	kerrors "github.com/vango-dev/urlkit/internal/errors"
	"github.com/vango-dev/urlkit/pkg/searchparams"
	"github.com/vango-dev/urlkit/pkg/weburl"
)

// Names installed by InstallAll, in order.
const (
	NameURL          = "URL"
	NameSearchParams = "URLSearchParams"
)

// ErrInstallation matches every Failed outcome's error via errors.Is.
var ErrInstallation = kerrors.New(kerrors.CodeInstallationFailure)

// ErrFrozen is returned by a frozen MapRegistry's Define.
var ErrFrozen = errors.New("registry is frozen")

// Attributes describe how a name is defined.
type Attributes struct {
	Configurable bool
	Writable     bool
	Enumerable   bool
}

// DefaultAttributes are the attributes TryDefine uses.
var DefaultAttributes = Attributes{Configurable: true, Writable: true, Enumerable: false}

// Registry is a namespace that names can be defined in.
type Registry interface {
	Lookup(name string) (any, bool)
	Define(name string, value any, attrs Attributes) error
}

// Status is the outcome of an installation attempt.
type Status int

const (
	Installed Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Installed:
		return "installed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result reports what an installation did.
type Result struct {
	Status Status
	// Names lists what was actually defined.
	Names []string
	// Err is set when Status is Failed.
	Err error
}

// TryDefine defines name in reg unless it already exists. A Define error
// is returned as a Failed result, never as a panic.
func TryDefine(reg Registry, name string, value any) Result {
	if _, exists := reg.Lookup(name); exists {
		return Result{Status: Skipped}
	}
	if err := reg.Define(name, value, DefaultAttributes); err != nil {
		return Result{
			Status: Failed,
			Err: kerrors.New(kerrors.CodeInstallationFailure).
				WithInput(name).
				Wrap(err),
		}
	}
	return Result{Status: Installed, Names: []string{name}}
}

// Constructors holds the values InstallAll defines.
type Constructors struct {
	URL          func(input string, base ...string) (*weburl.URL, error)
	SearchParams func(init any) (*searchparams.Params, error)
}

// DefaultConstructors wraps the ponyfill constructors.
func DefaultConstructors() Constructors {
	return Constructors{
		URL: func(input string, base ...string) (*weburl.URL, error) {
			if len(base) > 0 {
				return weburl.NewWithBase(input, base[0])
			}
			return weburl.New(input)
		},
		SearchParams: searchparams.New,
	}
}

// InstallAll installs URL and URLSearchParams. The first failure stops
// the run and is returned. When both names already exist the result is
// Skipped; otherwise it is Installed with the names that were defined.
func InstallAll(reg Registry) Result {
	ctors := DefaultConstructors()
	steps := []struct {
		name  string
		value any
	}{
		{NameURL, ctors.URL},
		{NameSearchParams, ctors.SearchParams},
	}

	var names []string
	for _, step := range steps {
		r := TryDefine(reg, step.name, step.value)
		switch r.Status {
		case Failed:
			return r
		case Installed:
			names = append(names, r.Names...)
		}
	}
	if len(names) == 0 {
		return Result{Status: Skipped}
	}
	return Result{Status: Installed, Names: names}
}

type entry struct {
	value any
	attrs Attributes
}

// MapRegistry is a Registry backed by a map. It is safe for concurrent use.
type MapRegistry struct {
	mu      sync.RWMutex
	entries map[string]entry
	frozen  bool
}

// NewMapRegistry returns an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{entries: make(map[string]entry)}
}

func (r *MapRegistry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.value, ok
}

// Define adds or replaces name. Replacing a non-configurable entry fails.
func (r *MapRegistry) Define(name string, value any, attrs Attributes) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	if old, ok := r.entries[name]; ok && !old.attrs.Configurable {
		return fmt.Errorf("cannot redefine non-configurable %q", name)
	}
	r.entries[name] = entry{value: value, attrs: attrs}
	return nil
}

// Attributes returns the attributes name was defined with.
func (r *MapRegistry) Attributes(name string) (Attributes, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.attrs, ok
}

// EnumerableNames returns the names defined as enumerable.
func (r *MapRegistry) EnumerableNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, e := range r.entries {
		if e.attrs.Enumerable {
			names = append(names, name)
		}
	}
	return names
}

// Freeze makes every later Define fail.
func (r *MapRegistry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}
