package program

import (
	"log/slog"
	"slices"
	"sync"
)

// OpenFunc launches or focuses a program.
type OpenFunc func(args ...string)

type program struct {
	id     int
	name   string
	onOpen OpenFunc
}

// Registry maps program names to launch callbacks. It knows nothing about
// windows; programs open their own.
type Registry struct {
	mu       sync.Mutex
	programs []program
	queued   map[string][]string
	nextID   int
	logger   *slog.Logger
}

// NewRegistry creates an empty launch registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		queued: make(map[string][]string),
		logger: logger,
	}
}

// Register adds a program. A launch queued for name before registration is
// delivered to onOpen immediately and then forgotten. The returned func
// removes exactly this registration.
func (r *Registry) Register(name string, onOpen OpenFunc) (unregister func()) {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.programs = append(r.programs, program{id: id, name: name, onOpen: onOpen})
	args, queued := r.queued[name]
	delete(r.queued, name)
	r.mu.Unlock()

	r.logger.Debug("program registered", "name", name, "queued", queued)
	if queued {
		onOpen(args...)
	}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.programs = slices.DeleteFunc(r.programs, func(p program) bool { return p.id == id })
	}
}

// Unregister removes every program registered under name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs = slices.DeleteFunc(r.programs, func(p program) bool { return p.name == name })
}

func (r *Registry) lookup(name string) (OpenFunc, bool) {
	for _, p := range r.programs {
		if p.name == name {
			return p.onOpen, true
		}
	}
	return nil, false
}

// Open launches name with args. It reports false when no program of that
// name is registered; surfacing that to the user is the caller's job.
func (r *Registry) Open(name string, args ...string) bool {
	r.mu.Lock()
	fn, ok := r.lookup(name)
	r.mu.Unlock()

	if !ok {
		r.logger.Debug("open of unregistered program", "name", name)
		return false
	}
	fn(args...)
	return true
}

// QueueOpen launches name once it registers. If it is already registered it
// launches now. A later QueueOpen for the same name replaces the pending args.
func (r *Registry) QueueOpen(name string, args ...string) {
	r.mu.Lock()
	fn, ok := r.lookup(name)
	if !ok {
		r.queued[name] = slices.Clone(args)
	}
	r.mu.Unlock()

	if ok {
		fn(args...)
	}
}

// Names lists registered program names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.programs))
	for _, p := range r.programs {
		if !slices.Contains(names, p.name) {
			names = append(names, p.name)
		}
	}
	return names
}

// Queued lists names with a pending launch.
func (r *Registry) Queued() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.queued))
	for name := range r.queued {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
