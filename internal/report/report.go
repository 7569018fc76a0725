// Package report bundles a tender summary and readiness score for export.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gingfrederik/docx"
	"github.com/google/uuid"

	"github.com/spigell/tender-responder/internal/readiness"
	"github.com/spigell/tender-responder/internal/summary"
)

const separator = "--------------------------------------------------"

type Report struct {
	ID         uuid.UUID              `json:"id"`
	CreatedAt  time.Time              `json:"created_at"`
	OCID       string                 `json:"ocid,omitempty"`
	Title      string                 `json:"title"`
	Summary    string                 `json:"summary"`
	Highlights []string               `json:"highlights"`
	Score      *readiness.ScoreResult `json:"score,omitempty"`
}

// New builds a report from a composed summary. score may be nil.
func New(ocid, title string, s summary.Summary, score *readiness.ScoreResult) *Report {
	return &Report{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		OCID:       ocid,
		Title:      title,
		Summary:    s.Text,
		Highlights: s.Highlights,
		Score:      score,
	}
}

func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteDocx renders the report as a Word document.
func (r *Report) WriteDocx(path string) error {
	f := docx.NewFile()

	run := f.AddParagraph().AddText(r.Title)
	run.Size(20)

	run = f.AddParagraph().AddText(fmt.Sprintf("Report %s | %s", r.ID, r.CreatedAt.Format(time.RFC3339)))
	run.Size(10)
	run.Color("808080")

	if r.OCID != "" {
		f.AddParagraph().AddText("OCID: " + r.OCID)
	}

	f.AddParagraph() // Spacer
	heading(f, "Summary")
	for _, paragraph := range strings.Split(r.Summary, "\n\n") {
		for _, line := range strings.Split(paragraph, "\n") {
			f.AddParagraph().AddText(line)
		}
	}

	if len(r.Highlights) > 0 {
		f.AddParagraph() // Spacer
		heading(f, "Key points")
		for _, highlight := range r.Highlights {
			f.AddParagraph().AddText(highlight)
		}
	}

	if r.Score != nil {
		f.AddParagraph() // Spacer
		f.AddParagraph().AddText(separator)
		heading(f, fmt.Sprintf("Suitability score: %d/100", r.Score.SuitabilityScore))
		for _, line := range r.Score.Checklist {
			f.AddParagraph().AddText(line)
		}
		f.AddParagraph() // Spacer
		f.AddParagraph().AddText(r.Score.Recommendation)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("saving docx %q: %w", path, err)
	}
	return nil
}

func heading(f *docx.File, text string) {
	run := f.AddParagraph().AddText(text)
	run.Size(16)
}
