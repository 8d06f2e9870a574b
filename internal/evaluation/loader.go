package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadTestSet reads and parses a labeled test set from a JSON file.
func LoadTestSet(path string) ([]TestItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test set file: %w", err)
	}

	var items []TestItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse test set: %w", err)
	}

	if err := ValidateTestSet(items); err != nil {
		return nil, err
	}

	return items, nil
}

// ValidateTestSet checks that all items have required fields and valid labels.
func ValidateTestSet(items []TestItem) error {
	for i, item := range items {
		if item.Text == "" {
			return fmt.Errorf("item at index %d: missing text", i)
		}
		if !item.TrueLabel.IsValid() {
			return fmt.Errorf("item at index %d: invalid true_label %q (must be positive/negative)", i, item.TrueLabel)
		}
	}
	return nil
}
