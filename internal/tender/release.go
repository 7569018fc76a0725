package tender

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	OCIDField      = "OCID"
	BuyerIDField   = "BuyerID"
	BuyerNameField = "BuyerName"
)

type Listings struct {
	Items []*Release
}

// Release is a subset of an OCDS release as published by the eTenders portal.
type Release struct {
	OCID      string      `json:"ocid,omitempty"`
	ID        string      `json:"id,omitempty"`
	Date      string      `json:"date,omitempty"`
	Tender    Info        `json:"tender,omitempty"`
	Buyer     Entity      `json:"buyer,omitempty"`
	Readiness *Assessment `json:"readiness,omitempty"`
}

type Info struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title,omitempty"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status,omitempty"`
	Province        string     `json:"province,omitempty"`
	ProcuringEntity Entity     `json:"procuringEntity,omitempty"`
	Items           []Item     `json:"items,omitempty"`
	Value           Value      `json:"value,omitempty"`
	TenderPeriod    Period     `json:"tenderPeriod,omitempty"`
	Documents       []Document `json:"documents,omitempty"`
}

type Entity struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Value struct {
	Amount   float64 `json:"amount,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

type Period struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type Item struct {
	ID             string         `json:"id,omitempty"`
	Description    string         `json:"description,omitempty"`
	Classification Classification `json:"classification,omitempty"`
}

type Classification struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`
}

type Document struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	URL    string `json:"url,omitempty"`
	Format string `json:"format,omitempty"`
}

// Assessment stores the readiness outcome attached by the readiness filter.
type Assessment struct {
	Score          int      `json:"score"`
	Recommendation string   `json:"recommendation,omitempty"`
	Checklist      []string `json:"checklist,omitempty"`
	Degraded       bool     `json:"degraded,omitempty"`
}

// BuyerName prefers the procuring entity and falls back to the release buyer.
func (r *Release) BuyerName() string {
	if name := strings.TrimSpace(r.Tender.ProcuringEntity.Name); name != "" {
		return name
	}
	return strings.TrimSpace(r.Buyer.Name)
}

func (r *Release) BuyerID() string {
	if id := strings.TrimSpace(r.Tender.ProcuringEntity.ID); id != "" {
		return id
	}
	return strings.TrimSpace(r.Buyer.ID)
}

func (r *Release) Title() string {
	if title := strings.TrimSpace(r.Tender.Title); title != "" {
		return title
	}
	return fmt.Sprintf("Tender %s", r.OCID)
}

// Text renders the listing as plain text suitable for requirement extraction.
func (r *Release) Text() string {
	budget := ""
	if r.Tender.Value.Amount > 0 {
		budget = strconv.FormatFloat(r.Tender.Value.Amount, 'f', -1, 64)
	}

	lines := []string{
		"Tender Title: " + r.Title(),
		"Description: " + strings.TrimSpace(r.Tender.Description),
		"Buyer: " + r.BuyerName(),
		"Province: " + strings.TrimSpace(r.Tender.Province),
		"Budget: " + budget,
	}

	return strings.Join(lines, "\n")
}

func (r *Release) GetStringField(name string) string {
	switch name {
	case OCIDField:
		return r.OCID
	case BuyerIDField:
		return r.BuyerID()
	case BuyerNameField:
		return r.BuyerName()
	default:
		return ""
	}
}

func (l *Listings) Len() int {
	return len(l.Items)
}

func (l *Listings) FindByOCID(ocid string) *Release {
	for _, release := range l.Items {
		if release.OCID == ocid {
			return release
		}
	}
	return nil
}

// Exclude drops releases whose field matches any of targets and returns the dropped OCIDs.
// The order of the remaining releases is preserved.
func (l *Listings) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[strings.ToLower(strings.TrimSpace(target))] = struct{}{}
	}

	var excluded []string
	kept := l.Items[:0]
	for _, release := range l.Items {
		if _, ok := set[strings.ToLower(release.GetStringField(name))]; ok {
			excluded = append(excluded, release.OCID)
			continue
		}
		kept = append(kept, release)
	}
	l.Items = kept

	return excluded
}

// ReportByBuyer groups listings by buyer for a quick overview.
func (l *Listings) ReportByBuyer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, release := range l.Items {
		key := fmt.Sprintf("%s (%s)", release.BuyerName(), release.BuyerID())
		entry := map[string]string{
			"ocid":     release.OCID,
			"title":    release.Title(),
			"province": release.Tender.Province,
			"closing":  release.Tender.TenderPeriod.EndDate,
			"value":    fmt.Sprintf("%.2f %s", release.Tender.Value.Amount, release.Tender.Value.Currency),
		}

		if release.Readiness != nil {
			entry["readiness_score"] = strconv.Itoa(release.Readiness.Score)
			entry["readiness_recommendation"] = release.Readiness.Recommendation
		}

		report[key] = append(report[key], entry)
	}
	return report
}

func (l *Listings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "tenders_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (l *Listings) ToExcluded(actor, reason string) *ExcludedTenders {
	excluded := &ExcludedTenders{}
	for _, release := range l.Items {
		excluded.Items = append(excluded.Items, &ExcludedTender{
			OCID:       release.OCID,
			Title:      release.Title(),
			BuyerName:  release.BuyerName(),
			ExcludedAt: time.Now().UTC(),
			Actor:      actor,
			Reason:     reason,
		})
	}
	return excluded
}
