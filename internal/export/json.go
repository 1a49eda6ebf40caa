package export

import (
	"fmt"
	"io"

	"github.com/theirongolddev/savearn/internal/state"
)

// WriteSnapshot writes st in the durable snapshot format, so an export can be
// restored on another machine or backend.
func WriteSnapshot(w io.Writer, st state.State) error {
	data, err := state.Encode(st)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadSnapshot parses a snapshot file.
func ReadSnapshot(r io.Reader) (state.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return state.State{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return state.Decode(data)
}
