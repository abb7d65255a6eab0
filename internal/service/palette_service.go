package service

import (
	"fmt"
	"os"
	"strings"
	"sync"

	paletteerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
)

// NamePolicy decides whether palette names must be unique among siblings.
type NamePolicy int

const (
	// RequireUniqueNames rejects create/rename when another palette has the
	// exact same name (case-sensitive).
	RequireUniqueNames NamePolicy = iota
	// AllowDuplicateNames never checks names.
	AllowDuplicateNames
)

// ChangeOp identifies the mutation that produced a Change.
type ChangeOp string

const (
	OpCreatePalette ChangeOp = "create_palette"
	OpRenamePalette ChangeOp = "rename_palette"
	OpResetPalette  ChangeOp = "reset_palette"
	OpDeletePalette ChangeOp = "delete_palette"
	OpAddColor      ChangeOp = "add_color"
	OpUpdateColor   ChangeOp = "update_color"
	OpRemoveColor   ChangeOp = "remove_color"
	OpReload        ChangeOp = "reload"
)

// Change describes a mutation after it has been applied.
// Saved is false when the in-memory edit succeeded but the write failed.
type Change struct {
	Op         ChangeOp `json:"op"`
	PaletteKey string   `json:"palette_key,omitempty"`
	ColorKey   string   `json:"color_key,omitempty"`
	Saved      bool     `json:"saved"`
}

// PaletteService owns the in-memory palette collection and keeps the backing
// file in sync: every mutation is applied in memory and immediately followed
// by a full save. Operations are serialized by a mutex, including their save.
//
// A failed save leaves the in-memory edit in place and returns the error;
// callers should treat memory and disk as diverged and may call Save again.
type PaletteService struct {
	store  store.PaletteStore
	policy NamePolicy

	mu       sync.Mutex
	palettes *model.Collection

	subMu       sync.RWMutex
	subscribers []func(Change)
}

// PaletteOption configures a PaletteService.
type PaletteOption func(*PaletteService)

// WithNamePolicy sets the name uniqueness policy. Default: RequireUniqueNames.
func WithNamePolicy(policy NamePolicy) PaletteOption {
	return func(s *PaletteService) {
		s.policy = policy
	}
}

// NewPaletteService creates a service with an empty collection.
// Call Load before use to read or initialize the backing file.
func NewPaletteService(store store.PaletteStore, opts ...PaletteOption) *PaletteService {
	s := &PaletteService{
		store:    store,
		policy:   RequireUniqueNames,
		palettes: model.NewCollection(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the backing file into memory.
// If the file doesn't exist, the bundled default palettes are used and written
// out (creating the directory). A malformed file is an error; no fallback.
// Returns a copy of the loaded collection.
func (s *PaletteService) Load() (*model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	palettes, err := s.store.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}

		s.palettes = model.DefaultCollection()
		if err := s.store.Save(s.palettes); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", s.store.Path(), err)
		}
		return s.palettes.Clone(), nil
	}

	s.palettes = palettes
	return s.palettes.Clone(), nil
}

// Reload re-reads the backing file, e.g. after an external edit.
// Unlike Load it never writes defaults; a missing file is an error.
func (s *PaletteService) Reload() error {
	s.mu.Lock()
	palettes, err := s.store.Load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.palettes = palettes
	s.mu.Unlock()

	s.notify(Change{Op: OpReload, Saved: true})
	return nil
}

// Save writes the full in-memory collection to the backing file.
func (s *PaletteService) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(s.palettes)
}

// Path returns the backing file path.
func (s *PaletteService) Path() string {
	return s.store.Path()
}

// Policy returns the configured name policy.
func (s *PaletteService) Policy() NamePolicy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// SetPolicy changes the name policy for later creates and renames.
// Existing duplicates are left alone.
func (s *PaletteService) SetPolicy(policy NamePolicy) {
	s.mu.Lock()
	s.policy = policy
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current collection.
func (s *PaletteService) Snapshot() *model.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palettes.Clone()
}

// Get returns a copy of the palette stored under key.
func (s *PaletteService) Get(key string) (*model.Palette, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := lookup(s.palettes, key)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// NameAvailable reports whether name can be used for the palette at exceptKey
// (empty for a new palette) under the current policy.
func (s *PaletteService) NameAvailable(name, exceptKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy == AllowDuplicateNames || !s.palettes.HasName(name, exceptKey)
}

// CreatePalette adds an empty palette under the next key and saves.
// Returns the new palette key.
func (s *PaletteService) CreatePalette(name string) (string, error) {
	change, err := s.apply(func(palettes *model.Collection) (Change, error) {
		if err := s.checkName(palettes, name, ""); err != nil {
			return Change{}, err
		}
		key := palettes.NextPaletteKey()
		palettes.Set(key, model.NewPalette(name))
		return Change{Op: OpCreatePalette, PaletteKey: key}, nil
	})
	return change.PaletteKey, err
}

// RenamePalette overwrites the palette's name and saves.
func (s *PaletteService) RenamePalette(key, name string) error {
	_, err := s.apply(func(palettes *model.Collection) (Change, error) {
		p, err := lookup(palettes, key)
		if err != nil {
			return Change{}, err
		}
		if err := s.checkName(palettes, name, key); err != nil {
			return Change{}, err
		}
		p.Name = name
		return Change{Op: OpRenamePalette, PaletteKey: key}, nil
	})
	return err
}

// ResetPalette removes every color from the palette and saves. The name is kept.
func (s *PaletteService) ResetPalette(key string) error {
	_, err := s.apply(func(palettes *model.Collection) (Change, error) {
		p, err := lookup(palettes, key)
		if err != nil {
			return Change{}, err
		}
		p.Colors.Clear()
		return Change{Op: OpResetPalette, PaletteKey: key}, nil
	})
	return err
}

// DeletePalette removes the palette and saves.
func (s *PaletteService) DeletePalette(key string) error {
	_, err := s.apply(func(palettes *model.Collection) (Change, error) {
		if _, err := lookup(palettes, key); err != nil {
			return Change{}, err
		}
		palettes.Delete(key)
		return Change{Op: OpDeletePalette, PaletteKey: key}, nil
	})
	return err
}

// AddColor appends color under the palette's next color key and saves.
// Returns the new color key.
func (s *PaletteService) AddColor(paletteKey, color string) (string, error) {
	change, err := s.apply(func(palettes *model.Collection) (Change, error) {
		p, err := lookup(palettes, paletteKey)
		if err != nil {
			return Change{}, err
		}
		colorKey := p.NextColorKey()
		p.Colors.Set(colorKey, color)
		return Change{Op: OpAddColor, PaletteKey: paletteKey, ColorKey: colorKey}, nil
	})
	return change.ColorKey, err
}

// UpdateColor overwrites the color stored under colorKey and saves.
func (s *PaletteService) UpdateColor(paletteKey, colorKey, color string) error {
	_, err := s.apply(func(palettes *model.Collection) (Change, error) {
		p, err := lookup(palettes, paletteKey)
		if err != nil {
			return Change{}, err
		}
		if !p.Colors.Has(colorKey) {
			return Change{}, paletteerr.ColorNotFound(colorKey, paletteKey)
		}
		p.Colors.Set(colorKey, color)
		return Change{Op: OpUpdateColor, PaletteKey: paletteKey, ColorKey: colorKey}, nil
	})
	return err
}

// RemoveColor deletes colorKey from the palette and saves.
func (s *PaletteService) RemoveColor(paletteKey, colorKey string) error {
	_, err := s.apply(func(palettes *model.Collection) (Change, error) {
		p, err := lookup(palettes, paletteKey)
		if err != nil {
			return Change{}, err
		}
		if !p.Colors.Delete(colorKey) {
			return Change{}, paletteerr.ColorNotFound(colorKey, paletteKey)
		}
		return Change{Op: OpRemoveColor, PaletteKey: paletteKey, ColorKey: colorKey}, nil
	})
	return err
}

// FilterPalettesByName returns copies of the palettes whose name contains
// query, ignoring case, under their original keys and in their original order.
func (s *PaletteService) FilterPalettesByName(query string) *model.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palettes.FilterByName(query).Clone()
}

// Search is FilterPalettesByName for user input: a blank query returns every palette.
func (s *PaletteService) Search(query string) *model.Collection {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Snapshot()
	}
	return s.FilterPalettesByName(query)
}

// Subscribe registers fn to be called after every mutation or reload.
// fn runs synchronously on the mutating goroutine, after the lock is released.
func (s *PaletteService) Subscribe(fn func(Change)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// apply runs edit against the live collection under the lock and, if it
// succeeds, saves. Subscribers are notified after the lock is released.
// A failed edit leaves nothing to save and notifies no one.
func (s *PaletteService) apply(edit func(*model.Collection) (Change, error)) (Change, error) {
	s.mu.Lock()
	change, err := edit(s.palettes)
	if err != nil {
		s.mu.Unlock()
		return Change{}, err
	}
	saveErr := s.store.Save(s.palettes)
	change.Saved = saveErr == nil
	s.mu.Unlock()

	s.notify(change)

	if saveErr != nil {
		return change, fmt.Errorf("change kept in memory but not saved: %w", saveErr)
	}
	return change, nil
}

func lookup(palettes *model.Collection, key string) (*model.Palette, error) {
	p, ok := palettes.Get(key)
	if !ok || p == nil {
		return nil, paletteerr.PaletteNotFound(key)
	}
	return p, nil
}

// checkName enforces the name policy. AllowDuplicateNames accepts anything.
func (s *PaletteService) checkName(palettes *model.Collection, name, exceptKey string) error {
	if s.policy == AllowDuplicateNames {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		return paletteerr.InvalidField("palette name", "must not be empty")
	}
	if palettes.HasName(name, exceptKey) {
		return paletteerr.PaletteNameTaken(name)
	}
	return nil
}

func (s *PaletteService) notify(change Change) {
	s.subMu.RLock()
	subs := make([]func(Change), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(change)
	}
}
