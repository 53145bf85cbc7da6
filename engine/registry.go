package engine

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"
)

// ErrUnknownBackend is returned for backend names nothing registered
var ErrUnknownBackend = errors.New("unknown backend")

// Options configure an adapter
type Options struct {
	Title      string
	FrameRate  int           // frames per second
	HoldWindow time.Duration // terminal key hold emulation, 0 disables
	Mouse      bool          // enable pointer reporting
}

// FrameDuration is the target frame period
func (o Options) FrameDuration() time.Duration {
	if o.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(o.FrameRate)
}

// DefaultFrameRate is used when Options.FrameRate is unset
const DefaultFrameRate = 30

// Adapter drives an App on a concrete display until the app returns
type Adapter interface {
	Run(app App) error
}

// Factory creates an adapter
type Factory func(opts Options) (Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend available by name. It panics on duplicates.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		panic("engine: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("engine: Register called twice for backend " + name)
	}
	registry[name] = f
}

// Backends lists registered backend names in sorted order
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open creates the named adapter
func Open(name string, opts Options) (Adapter, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	return f(opts)
}

// Run opens the named backend and runs app on it until app returns
func Run(name string, opts Options, app App) error {
	a, err := Open(name, opts)
	if err != nil {
		return err
	}
	log.Printf("engine: running on %s backend at %d fps", name, int(time.Second/opts.FrameDuration()))
	if err := a.Run(app); err != nil {
		return fmt.Errorf("%s backend: %w", name, err)
	}
	return nil
}
