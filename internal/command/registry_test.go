package command

import (
	"errors"
	"testing"

	paletteerr "github.com/amterp/palette/internal/errors"
)

func TestRegistry_AddExec(t *testing.T) {
	r := NewRegistry()
	calls := 0
	if err := r.Add(Command{Name: "Color palette", Exec: func() error { calls++; return nil }}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := r.Exec("Color palette"); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRegistry_AddDuplicate(t *testing.T) {
	r := NewRegistry()
	r.Add(Command{Name: "x"})
	if err := r.Add(Command{Name: "x"}); !paletteerr.IsAlreadyExists(err) {
		t.Errorf("expected AlreadyExists, got %v", err)
	}
}

func TestRegistry_ExecUnknown(t *testing.T) {
	r := NewRegistry()
	if err := r.Exec("missing"); !paletteerr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestRegistry_ExecPropagatesError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Add(Command{Name: "x", Exec: func() error { return boom }})
	if err := r.Exec("x"); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestRegistry_RemoveAndList(t *testing.T) {
	r := NewRegistry()
	r.Add(Command{Name: "b"})
	r.Add(Command{Name: "a"})
	r.Add(Command{Name: "c"})
	r.Remove("b")
	r.Remove("never-added")

	list := r.List()
	if len(list) != 2 || list[0].Name != "a" || list[1].Name != "c" {
		t.Errorf("List = %+v, want [a c]", list)
	}
	if r.Has("b") {
		t.Error("b should be removed")
	}
}
