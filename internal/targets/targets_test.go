package targets

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup(t *testing.T) {
	t.Run("for every registered name", func(t *testing.T) {
		for _, name := range Names() {
			target, err := Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			if target.Name != name {
				t.Fatal("invalid target name", target.Name)
			}
			if len(target.SourceGlobs) < 1 {
				t.Fatal("expected at least one source glob for", name)
			}
			if len(target.Deps) < 1 {
				t.Fatal("expected at least one dependency for", name)
			}
		}
	})

	t.Run("for an unknown name", func(t *testing.T) {
		target, err := Lookup("MediaPipeTasksAntani")
		if !errors.Is(err, ErrUnknownTarget) {
			t.Fatal("unexpected error", err)
		}
		if target != nil {
			t.Fatal("expected nil target")
		}
	})
}

func TestNames(t *testing.T) {
	expect := []string{
		"MediaPipeTasksCommon",
		"MediaPipeTasksText",
		"MediaPipeTasksVision",
		"MediaPipeTasksAudio",
		"MediaPipeTasksGenAI",
	}
	if diff := cmp.Diff(expect, Names()); diff != "" {
		t.Fatal(diff)
	}
}

func TestAllReturnsACopy(t *testing.T) {
	all := All()
	all[0] = nil
	if registry[0] == nil {
		t.Fatal("All must not expose the registry backing array")
	}
}
