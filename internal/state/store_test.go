package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/melulu/internal/catalog"
)

func TestStore_RenderAndSnapshotClone(t *testing.T) {
	var s Store

	detail := catalog.Detail{ID: "d", Tags: []string{"x"}}
	s.Render(Snapshot{
		Items:    []catalog.ListItem{{ID: "1"}, {ID: "2"}},
		Selected: &detail,
		Revision: 3,
	})

	snap := s.Snapshot()
	if len(snap.Items) != 2 || snap.Items[0].ID != "1" {
		t.Fatalf("snapshot items = %#v, want 2 items", snap.Items)
	}
	if snap.Revision != 3 {
		t.Fatalf("Revision = %d, want 3", snap.Revision)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Items[0].ID = "999"
	snap.Selected.Tags[0] = "mutated"
	detail.Tags[0] = "mutated"
	snap2 := s.Snapshot()
	if snap2.Items[0].ID != "1" {
		t.Fatalf("Snapshot should clone items; got id %q want 1", snap2.Items[0].ID)
	}
	if snap2.Selected.Tags[0] != "x" {
		t.Fatalf("Snapshot should clone selection tags; got %q", snap2.Selected.Tags[0])
	}
}

func TestStore_SnapshotClonesError(t *testing.T) {
	var s Store
	origErr := errors.New("boom")
	s.Render(Snapshot{LastError: origErr, ConsecutiveFailures: 2})

	snap := s.Snapshot()
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !snap.IsOffline() {
		t.Fatalf("IsOffline() = false, want true with 2 failures")
	}
}

func TestStore_ChangedClosesOnRender(t *testing.T) {
	var s Store
	ch := s.Changed()

	select {
	case <-ch:
		t.Fatal("Changed closed before Render")
	default:
	}

	s.Render(Snapshot{Revision: 1})
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("Changed not closed after Render")
	}
}

func TestSnapshotHelpers(t *testing.T) {
	if got := itemsShown(1); got != "1 item shown" {
		t.Fatalf("itemsShown(1) = %q", got)
	}
	if got := (Snapshot{Mode: ModeSearch, Query: "CEO"}).Heading(); got != "Search: “CEO”" {
		t.Fatalf("Heading = %q", got)
	}
	if Select("x").String() != `select("x")` {
		t.Fatalf("Intent.String = %q", Select("x").String())
	}
	if KindTheater.String() != "theater" || Kind(99).String() != "kind(99)" {
		t.Fatalf("Kind.String mismatch")
	}
}
