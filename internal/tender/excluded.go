package tender

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

const (
	ExcludeActorManual    = "manual"
	ExcludeActorReadiness = "readiness"
)

type ExcludedTenders struct {
	Items []*ExcludedTender
}

type ExcludedTender struct {
	OCID       string
	Title      string
	BuyerName  string
	ExcludedAt time.Time
	Actor      string `json:",omitempty"`
	Reason     string `json:",omitempty"`
}

// GetExcludedFromFile reads an exclude file. A missing or empty file yields an empty list.
func GetExcludedFromFile(path string) (*ExcludedTenders, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedTenders{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedTenders{}, nil
	}

	var excluded ExcludedTenders
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedTenders) Append(s *ExcludedTenders) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedTenders) OCIDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.OCID)
	}
	return ids
}

func (e *ExcludedTenders) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
