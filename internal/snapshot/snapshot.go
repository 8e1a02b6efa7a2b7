// Package snapshot mirrors the call operations state to a local key-value
// snapshot. Exactly one document lives under the fixed Key, regardless of
// backend; losing the most recent mutation on a crash between mutation and
// mirror write is acceptable for a local productivity tool.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"callops-platform/internal/callops"
)

// Key is the fixed storage key the state document is persisted under.
const Key = "call-agent-state"

// Store is the persistence contract. Load reports ok=false when no snapshot
// has been written yet, which callers treat as a first run.
type Store interface {
	Load(ctx context.Context) (callops.State, bool, error)
	Save(ctx context.Context, st callops.State) error
}

func encode(st callops.State) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("snapshot encode: %w", err)
	}
	return data, nil
}

func decode(data []byte) (callops.State, error) {
	var st callops.State
	if err := json.Unmarshal(data, &st); err != nil {
		return callops.State{}, fmt.Errorf("snapshot decode: %w", err)
	}
	return st, nil
}
