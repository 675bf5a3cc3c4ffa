package backend

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/stereo"
)

// BackendFactory creates a new, uninitialized backend instance.
type BackendFactory func() RenderBackend

// loggerSetter is implemented by backends that keep their own logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// rank orders the known backends for Default; lower wins. Backends with
// other names follow in registration order.
var rank = map[string]int{
	BackendWGPU:     0,
	BackendSoftware: 1,
}

type entry struct {
	name    string
	rank    int
	seq     int
	factory BackendFactory
}

var (
	mu      sync.RWMutex
	entries []entry
	nextSeq int
)

// Register adds a backend factory under name, replacing any factory
// already registered under it. Backend packages call it from init.
func Register(name string, factory BackendFactory) {
	mu.Lock()
	defer mu.Unlock()

	r, ok := rank[name]
	if !ok {
		r = len(rank)
	}
	e := entry{name: name, rank: r, seq: nextSeq, factory: factory}
	nextSeq++

	if i := indexOf(name); i >= 0 {
		entries[i] = e
	} else {
		entries = append(entries, e)
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Or(cmp.Compare(a.rank, b.rank), cmp.Compare(a.seq, b.seq))
	})
}

// Unregister removes the factory registered under name, if any.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	if i := indexOf(name); i >= 0 {
		entries = slices.Delete(entries, i, i+1)
	}
}

// indexOf returns the position of name in entries, or -1. mu must be held.
func indexOf(name string) int {
	return slices.IndexFunc(entries, func(e entry) bool { return e.name == name })
}

// Available returns the registered backend names in selection order.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// IsRegistered reports whether a factory is registered under name.
func IsRegistered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return indexOf(name) >= 0
}

// Get returns a new instance of the named backend, or nil.
func Get(name string) RenderBackend {
	mu.RLock()
	i := indexOf(name)
	var f BackendFactory
	if i >= 0 {
		f = entries[i].factory
	}
	mu.RUnlock()
	if f == nil {
		return nil
	}
	return f()
}

// Default returns a new instance of the first backend in selection order
// whose factory produces one: wgpu, then software, then anything else.
func Default() RenderBackend {
	mu.RLock()
	factories := make([]BackendFactory, len(entries))
	for i, e := range entries {
		factories[i] = e.factory
	}
	mu.RUnlock()

	for _, f := range factories {
		if b := f(); b != nil {
			return b
		}
	}
	return nil
}

// MustDefault is like Default but panics when no backend is registered.
func MustDefault() RenderBackend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}

// Open creates and initializes the named backend. The backend receives
// the current stereo logger before Init if it accepts one.
func Open(name string) (RenderBackend, error) {
	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	return initBackend(b)
}

// InitDefault creates and initializes the Default backend.
func InitDefault() (RenderBackend, error) {
	b := Default()
	if b == nil {
		return nil, ErrBackendNotAvailable
	}
	return initBackend(b)
}

func initBackend(b RenderBackend) (RenderBackend, error) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(stereo.Logger())
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("backend %s: %w", b.Name(), err)
	}
	stereo.Logger().Info("backend ready", "name", b.Name())
	return b, nil
}
