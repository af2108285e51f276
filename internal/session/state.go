package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/novabank/payportal/internal/user"
)

// State is the durable slice of a session: just the capability token and who
// it belongs to. Everything else is refetched on resume.
type State struct {
	Token   string    `json:"token"`
	ActorID uuid.UUID `json:"actorId"`
	Role    user.Role `json:"role"`
}

// StateStore persists session state to a file, the terminal analog of
// browser local storage. Cleared on logout and on session expiry.
type StateStore struct {
	path string
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// DefaultStatePath places the session file under the user config directory.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}

	return filepath.Join(dir, "payportal", "session.json"), nil
}

func (s *StateStore) Save(state State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}

	return nil
}

// Load returns the persisted state and whether one exists.
func (s *StateStore) Load() (State, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, false, nil
		}

		return State{}, false, fmt.Errorf("reading session state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, fmt.Errorf("decoding session state: %w", err)
	}

	if state.Token == "" || state.ActorID == uuid.Nil {
		return State{}, false, nil
	}

	return state, true, nil
}

func (s *StateStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing session state: %w", err)
	}

	return nil
}
