package delivery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"StrideCoach/internal/model"
)

// LoadState reads the delivery state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*model.DeliveryState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.DeliveryState{Profiles: map[string]*model.ProfileDelivery{}}, nil
		}
		return nil, fmt.Errorf("read delivery state: %w", err)
	}
	var state model.DeliveryState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse delivery state: %w", err)
	}
	if state.Profiles == nil {
		state.Profiles = map[string]*model.ProfileDelivery{}
	}
	return &state, nil
}

// SaveState writes the delivery state to a JSON file, creating its directory.
func SaveState(filePath string, state *model.DeliveryState) error {
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
	return os.WriteFile(filePath, data, 0o644)
}
