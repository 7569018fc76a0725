package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/readiness"
	"github.com/spigell/tender-responder/internal/tender"
)

func TestGetConfigDecodesKeys(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.SetConfigType("yaml")
	config := `
search:
  keywords: construction
  province: Gauteng
  days: 30
  page-size: 50
  max-pages: 2
source:
  kind: feed
  feeds:
    - https://example.com/tenders.rss
  max-retries: 5
exclude-file: excluded.json
history-file: history.json
exclude:
  buyers:
    - dpw
readiness:
  enabled: true
  minimum-score: 60
cache:
  enabled: true
  ttl: 30m
  redis:
    addr: localhost:6379
    db: 2
`
	if err := viper.ReadConfig(strings.NewReader(config)); err != nil {
		t.Fatalf("reading config: %v", err)
	}

	got, err := getConfig()
	if err != nil {
		t.Fatalf("decoding config: %v", err)
	}

	if got.Search == nil || got.Search.Keywords != "construction" || got.Search.PageSize != 50 || got.Search.MaxPages != 2 {
		t.Fatalf("unexpected search params: %+v", got.Search)
	}
	if got.Source == nil || got.Source.Kind != "feed" || len(got.Source.Feeds) != 1 || got.Source.MaxRetries != 5 {
		t.Fatalf("unexpected source: %+v", got.Source)
	}
	if got.Exclude == nil || len(got.Exclude.Buyers) != 1 {
		t.Fatalf("unexpected exclude section: %+v", got.Exclude)
	}
	if got.Readiness == nil || !got.Readiness.Enabled || got.Readiness.MinimumScore != 60 {
		t.Fatalf("unexpected readiness section: %+v", got.Readiness)
	}
	if got.Cache == nil || got.Cache.TTL != 30*time.Minute || got.Cache.Redis.DB != 2 {
		t.Fatalf("unexpected cache section: %+v", got.Cache)
	}
	if got.HistoryFile != "history.json" || got.ExcludeFile != "excluded.json" {
		t.Fatalf("unexpected files: %q %q", got.HistoryFile, got.ExcludeFile)
	}
}

func TestResolveRedisPassword(t *testing.T) {
	t.Cleanup(viper.Reset)

	password, err := resolveRedisPassword(&RedisConfig{})
	if err != nil || password != "" {
		t.Fatalf("expected no password, got %q / %v", password, err)
	}

	file := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(file, []byte("s3cret\n"), 0o600); err != nil {
		t.Fatalf("writing password: %v", err)
	}

	password, err = resolveRedisPassword(&RedisConfig{Password: "inline", PasswordFile: file})
	if err != nil || password != "s3cret" {
		t.Fatalf("expected password from file, got %q / %v", password, err)
	}
}

func TestRecordHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	config := &Config{HistoryFile: path}

	if err := recordHistory(config, "ocds-1", "Hall", "Demo", readiness.ScoreResult{SuitabilityScore: 85}); err != nil {
		t.Fatalf("recording history: %v", err)
	}
	if err := recordHistory(config, "ocds-2", "Broken", "Demo", readiness.ScoreResult{Degraded: true}); err != nil {
		t.Fatalf("recording history: %v", err)
	}

	history, err := tender.LoadHistory(path)
	if err != nil {
		t.Fatalf("loading history: %v", err)
	}
	if history.Len() != 1 || history.Entries[0].OCID != "ocds-1" {
		t.Fatalf("expected only the computed score, got %+v", history.Entries)
	}

	if err := recordHistory(&Config{}, "ocds-3", "", "", readiness.ScoreResult{}); err != nil {
		t.Fatalf("unset history file must be a no-op: %v", err)
	}
}

func TestHandleActionExits(t *testing.T) {
	listings := &tender.Listings{}

	if err := handleAction(PromptNo, zap.NewNop(), &Config{}, nil, listings); err != errExit {
		t.Fatalf("expected errExit, got %v", err)
	}
	if err := handleAction("unknown", zap.NewNop(), &Config{}, nil, listings); err == nil || err == errExit {
		t.Fatalf("expected invalid action error, got %v", err)
	}
}
