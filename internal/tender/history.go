package tender

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

// History is the list of readiness scores computed so far.
type History struct {
	Entries []*HistoryEntry `json:"entries"`
}

type HistoryEntry struct {
	OCID            string    `json:"ocid"`
	Title           string    `json:"title,omitempty"`
	Company         string    `json:"company,omitempty"`
	Score           int       `json:"suitability_score"`
	Recommendation  string    `json:"recommendation"`
	MatchedCriteria int       `json:"matched_criteria"`
	TotalCriteria   int       `json:"total_criteria"`
	CreatedAt       time.Time `json:"created_at"`
}

func LoadHistory(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &History{}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return &History{}, nil
	}

	var history History
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (h *History) Add(entry *HistoryEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	h.Entries = append(h.Entries, entry)
}

func (h *History) Len() int {
	return len(h.Entries)
}

// Average returns the mean suitability score, or 0 for an empty history.
func (h *History) Average() float64 {
	if len(h.Entries) == 0 {
		return 0
	}

	total := 0
	for _, entry := range h.Entries {
		total += entry.Score
	}
	return float64(total) / float64(len(h.Entries))
}

func (h *History) ToFile(path string) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
