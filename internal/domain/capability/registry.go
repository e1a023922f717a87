package capability

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrFrozen is returned when Register is called after the registry has been
// sealed for serving.
var ErrFrozen = errors.New("capability registry is frozen")

// DuplicateNameError reports a registration whose name and kind are already
// taken. The earlier registration always wins; the late one is rejected.
type DuplicateNameError struct {
	Name string
	Kind Kind
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s capability: %s", e.Kind, e.Name)
}

type registryKey struct {
	name string
	kind Kind
}

// Registry is the process-wide registration sink. It is written only during
// the startup build phase; once Freeze is called it is read-only for the
// life of the process, so readers after that point need no coordination.
type Registry struct {
	mu     sync.RWMutex
	frozen bool
	byKey  map[registryKey]*Capability
	order  []*Capability
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[registryKey]*Capability)}
}

// Register stores cap under its name and kind. It fails with
// *DuplicateNameError if that identity is already taken, and with ErrFrozen
// after Freeze; it never overwrites an existing registration.
func (r *Registry) Register(cap *Capability) error {
	if cap == nil {
		return fmt.Errorf("nil capability")
	}
	if err := cap.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register %s %q: %w", cap.Kind, cap.Name, ErrFrozen)
	}
	key := registryKey{name: cap.Name, kind: cap.Kind}
	if _, exists := r.byKey[key]; exists {
		return &DuplicateNameError{Name: cap.Name, Kind: cap.Kind}
	}
	r.byKey[key] = cap
	r.order = append(r.order, cap)
	return nil
}

// Freeze seals the registry. Further Register calls fail.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether the registry has been sealed.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// All returns the registered capabilities sorted by name, then kind, so
// callers never depend on scan or registration order. The slice is a copy;
// the capabilities themselves are shared and must not be mutated after the
// build phase.
func (r *Registry) All() []*Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Capability, len(r.order))
	copy(out, r.order)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Get looks up a capability by name and kind.
func (r *Registry) Get(name string, kind Kind) (*Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byKey[registryKey{name: name, kind: kind}]
	return c, ok
}

// Len reports the number of registered capabilities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
