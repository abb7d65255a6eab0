package command

import (
	"sort"
	"sync"

	paletteerr "github.com/amterp/palette/internal/errors"
)

// Command is a named action that can be invoked by name.
type Command struct {
	Name        string
	Description string
	Exec        func() error
}

// Registry holds named commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Add registers cmd. Names must be unique.
func (r *Registry) Add(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name]; exists {
		return paletteerr.CommandAlreadyExists(cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	return nil
}

// Remove unregisters the named command. Removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Exec runs the named command.
func (r *Registry) Exec(name string) error {
	r.mu.RLock()
	cmd, ok := r.commands[name]
	r.mu.RUnlock()

	if !ok {
		return paletteerr.CommandNotFound(name)
	}
	if cmd.Exec == nil {
		return nil
	}
	return cmd.Exec()
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commands[name]
	return ok
}

// List returns the registered commands sorted by name.
func (r *Registry) List() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
