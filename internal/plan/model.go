package plan

import (
	"encoding/json"
	"fmt"
	"time"
)

// Plan is a hosting offering shown on the public catalog. Features is always
// a decoded list at this level; the JSON column only exists inside the
// repository.
type Plan struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	CPU         int       `json:"cpu"`
	RAM         int       `json:"ram"`
	Storage     int       `json:"storage"`
	Backups     int       `json:"backups"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// encodeFeatures serializes the feature list for the nullable JSON column.
// Empty and absent lists are both stored as NULL.
func encodeFeatures(features []string) (*string, error) {
	if len(features) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}

	encoded := string(raw)
	return &encoded, nil
}

// decodeFeatures restores the feature list from the column value. NULL decodes
// to an empty list.
func decodeFeatures(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return []string{}, nil
	}

	var features []string
	if err := json.Unmarshal([]byte(*raw), &features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if features == nil {
		features = []string{}
	}

	return features, nil
}
