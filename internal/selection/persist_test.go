package selection

import (
	"errors"
	"testing"

	tu "github.com/desertthunder/sweetlist/internal/testing"
)

func TestAdapter(t *testing.T) {
	t.Run("Load with nothing stored returns an empty set", func(t *testing.T) {
		a := NewAdapter(tu.NewMapStorage(), nil)
		if got := a.Load(); got.Len() != 0 {
			t.Errorf("Load() = %v, want empty", got)
		}
	})

	t.Run("Load with malformed JSON returns an empty set", func(t *testing.T) {
		for _, raw := range []string{"{not json", `["a","b"]`, `{"ids":[1]}`, `[1.5]`, ""} {
			storage := tu.NewMapStorage()
			storage.Items[StorageKey] = raw

			if got := NewAdapter(storage, nil).Load(); got.Len() != 0 {
				t.Errorf("Load() with %q = %v, want empty", raw, got)
			}
		}
	})

	t.Run("Load with unreadable storage returns an empty set", func(t *testing.T) {
		storage := &tu.FailingStorage{Err: errors.New("access denied")}
		if got := NewAdapter(storage, nil).Load(); got.Len() != 0 {
			t.Errorf("Load() = %v, want empty", got)
		}
	})

	t.Run("Load without storage returns an empty set", func(t *testing.T) {
		if got := NewAdapter(nil, nil).Load(); got.Len() != 0 {
			t.Errorf("Load() = %v, want empty", got)
		}
	})

	t.Run("Save then Load round-trips", func(t *testing.T) {
		for _, set := range []Set{NewSet(), NewSet(42), NewSet(5, 6, 1000, -1)} {
			storage := tu.NewMapStorage()
			a := NewAdapter(storage, nil)
			a.Save(set)

			if got := a.Load(); !got.Equal(set) {
				t.Errorf("round trip of %v gave %v", set, got)
			}
		}
	})

	t.Run("Save writes a JSON array under the fixed key", func(t *testing.T) {
		storage := tu.NewMapStorage()
		NewAdapter(storage, nil).Save(NewSet(6, 5))

		if got := storage.Items["selectedRecipes"]; got != "[5,6]" {
			t.Errorf("stored value = %q, want [5,6]", got)
		}
	})

	t.Run("Save swallows write failures", func(t *testing.T) {
		storage := &tu.FailingStorage{Err: errors.New("quota exceeded")}
		NewAdapter(storage, nil).Save(NewSet(1))

		if storage.Writes != 1 {
			t.Errorf("expected one attempted write, got %d", storage.Writes)
		}
	})
}
