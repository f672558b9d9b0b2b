package holdings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"MarketAdvisor/internal/model"
)

// LoadState reads the holdings from a JSON file. Returns an empty state if the
// file doesn't exist.
func LoadState(filePath string) (*model.HoldingsState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.HoldingsState{Holdings: map[string]model.Holding{}}, nil
		}
		return nil, err
	}
	var state model.HoldingsState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Holdings == nil {
		state.Holdings = map[string]model.Holding{}
	}
	return &state, nil
}

// SaveState writes the holdings to a JSON file, replacing it atomically.
func SaveState(filePath string, state *model.HoldingsState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
