package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

// ReadPortal parses the portal seed document. It reads from disk on every
// call: the portal holds no in-process state, so edits to the seed file
// show up on the next request.
func ReadPortal(path string) (*model.Portal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portal seed: %w", err)
	}
	var p model.Portal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse portal seed %s: %w", path, err)
	}
	return &p, nil
}
