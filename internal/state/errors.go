package state

import (
	"errors"
	"fmt"
)

var (
	// ErrSuperseded is returned by Finish when a newer intent of the same class
	// replaced the one being finished. Its result was discarded; it is not a
	// user-facing failure.
	ErrSuperseded = errors.New("superseded by a newer request")

	// ErrNoSelection is returned by intents that act on the selected drama
	// when nothing is selected.
	ErrNoSelection = errors.New("no drama selected")

	// ErrEmptyID is returned by Select for a blank identifier.
	ErrEmptyID = errors.New("drama id is empty")
)

// EmptyMediaError reports a video lookup that resolved to no playable URL.
type EmptyMediaError struct {
	ID string
}

func (e *EmptyMediaError) Error() string {
	return fmt.Sprintf("video url missing from api response for %q", e.ID)
}
