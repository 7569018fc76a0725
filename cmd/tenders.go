package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/cache"
	"github.com/spigell/tender-responder/internal/document"
	"github.com/spigell/tender-responder/internal/etenders"
	"github.com/spigell/tender-responder/internal/feed"
	"github.com/spigell/tender-responder/internal/logger"
	"github.com/spigell/tender-responder/internal/profile"
	"github.com/spigell/tender-responder/internal/readiness"
	"github.com/spigell/tender-responder/internal/secrets"
	"github.com/spigell/tender-responder/internal/tender"
)

const (
	sourceEtenders = "etenders"
	sourceFeed     = "feed"
)

// setup builds the logger and reads the config. Both failures are fatal.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func newClient(config *Config, logger *zap.Logger) *etenders.Client {
	client := etenders.New(logger)
	if config.Source == nil {
		return client
	}

	if config.Source.URL != "" {
		client.APIURL = strings.TrimRight(config.Source.URL, "/")
	}
	if config.Source.MaxRetries > 0 {
		client.MaxRetries = config.Source.MaxRetries
	}
	return client
}

// newSource returns the configured listing source, wrapped with the Redis cache when enabled.
// The returned func releases the cache connection.
func newSource(ctx context.Context, config *Config, logger *zap.Logger) (etenders.Source, func(), error) {
	var source etenders.Source = newClient(config, logger)

	if config.Source != nil && strings.EqualFold(config.Source.Kind, sourceFeed) {
		if len(config.Source.Feeds) == 0 {
			return nil, nil, fmt.Errorf("source.feeds is required for the %s source", sourceFeed)
		}
		source = feed.New(config.Source.Feeds, logger)
	} else if config.Source != nil && config.Source.Kind != "" && !strings.EqualFold(config.Source.Kind, sourceEtenders) {
		return nil, nil, fmt.Errorf("unsupported source kind: %s", config.Source.Kind)
	}

	if config.Cache == nil || !config.Cache.Enabled {
		return source, func() {}, nil
	}

	redisCfg := cache.Config{}
	if config.Cache.Redis != nil {
		redisCfg.Addr = config.Cache.Redis.Addr
		redisCfg.DB = config.Cache.Redis.DB

		password, err := resolveRedisPassword(config.Cache.Redis)
		if err != nil {
			return nil, nil, err
		}
		redisCfg.Password = password
	}

	rdb, err := cache.NewClient(ctx, redisCfg)
	if err != nil {
		logger.Warn("cache is not available, searching without it", zap.Error(err))
		return source, func() {}, nil
	}

	return cache.New(source, rdb, config.Cache.TTL, logger), func() { rdb.Close() }, nil
}

// resolveRedisPassword returns an empty password when none is configured.
func resolveRedisPassword(cfg *RedisConfig) (string, error) {
	file := strings.TrimSpace(cfg.PasswordFile)
	if file == "" {
		file = strings.TrimSpace(viper.GetString("cache.redis.password-file"))
	}

	return secrets.Load(secrets.Source{
		Name:     "redis password",
		Value:    cfg.Password,
		File:     file,
		Optional: true,
	})
}

// loadCompany reads the profile file from the flag or config, falling back to the demo profile.
func loadCompany(path string, config *Config, logger *zap.Logger) (*readiness.CompanyProfile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(config.Profile)
	}

	if path == "" {
		logger.Info("no company profile configured, using the demo profile")
		return profile.Normalize(profile.Demo()), nil
	}

	stored, err := profile.LoadFile(path)
	if err != nil {
		return nil, err
	}

	logger.Info("company profile loaded", zap.String("company", stored.CompanyName), zap.String("path", path))
	return profile.Normalize(stored), nil
}

// tenderText resolves the text to analyze from files or a release OCID.
// Release documents are preferred; the listing itself is used when none yield text.
func tenderText(ctx context.Context, config *Config, logger *zap.Logger, files []string, ocid string) (string, *tender.Release, error) {
	if len(files) > 0 {
		result, err := document.ExtractFiles(ctx, files, logger)
		if err != nil {
			return "", nil, err
		}
		for _, e := range result.Errors {
			logger.Warn("document skipped", zap.String("reason", e))
		}
		logger.Info(result.Message())
		return result.Text, nil, nil
	}

	if ocid == "" {
		return "", nil, fmt.Errorf("either files or --ocid are required")
	}

	release, err := newClient(config, logger).GetRelease(ctx, ocid)
	if err != nil {
		return "", nil, err
	}

	result := document.NewFetcher(logger).ProcessTender(ctx, release)
	logger.Info(result.Message(), zap.Strings("errors", result.Errors))
	if result.Success() {
		return result.Text, release, nil
	}

	logger.Info("no document text available, using the tender listing")
	return release.Text(), release, nil
}
