package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/tender-responder/internal/etenders"
)

const (
	app = "tender-responder"
)

type Config struct {
	Search      *etenders.SearchParams `mapstructure:"search"`
	Source      *SourceConfig          `mapstructure:"source"`
	ExcludeFile string                 `mapstructure:"exclude-file"`
	HistoryFile string                 `mapstructure:"history-file"`
	Profile     string                 `mapstructure:"profile"`
	Exclude     *struct {
		Buyers []string `mapstructure:"buyers"`
	} `mapstructure:"exclude"`
	Readiness *ReadinessConfig `mapstructure:"readiness"`
	Cache     *CacheConfig     `mapstructure:"cache"`
}

type SourceConfig struct {
	// Kind is either etenders or feed.
	Kind       string   `mapstructure:"kind"`
	URL        string   `mapstructure:"url"`
	Feeds      []string `mapstructure:"feeds"`
	MaxRetries int      `mapstructure:"max-retries"`
}

type ReadinessConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	MinimumScore int  `mapstructure:"minimum-score"`
	// Documents enables scoring against downloaded tender documents.
	Documents bool `mapstructure:"documents"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   *RedisConfig  `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	DB           int    `mapstructure:"db"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "tender-responder searches public tenders, summarizes tender documents and scores bid readiness",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("cache.redis.password-file", "TENDER_RESPONDER_REDIS_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding TENDER_RESPONDER_REDIS_PASSWORD_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("profile", "TENDER_RESPONDER_PROFILE"); err != nil {
		log.Fatalf("binding TENDER_RESPONDER_PROFILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is tender-responder.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// .env is optional, variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every command works without a config file, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	err := viper.Unmarshal(config)
	if err != nil {
		return config, err
	}

	return config, nil
}
