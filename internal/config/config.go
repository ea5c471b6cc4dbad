package config

import (
	"errors"
	"flag"
	"io"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultTimeout     = 30 * time.Second
	defaultProfilePath = "quiz-profile.db"
	defaultLogMode     = "dev"
)

type Config struct {
	API     APIConfig
	Profile ProfileConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ProfileConfig struct {
	// Path of the sqlite profile storage; "memory" keeps credentials in-process only.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
	File string `mapstructure:"file"`
}

// Load resolves configuration with precedence flags > env (QUIZ_*) > config file > defaults.
// A .env file in the working directory is loaded into the environment first when present.
func Load(args []string, stderr io.Writer) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("api.base_url", defaultBaseURL)
	v.SetDefault("api.timeout", defaultTimeout)
	v.SetDefault("profile.path", defaultProfilePath)
	v.SetDefault("log.mode", defaultLogMode)
	v.SetDefault("log.file", "")

	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fs := flag.NewFlagSet("quiz-client", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "path to a YAML config file (default ./quiz-client.yaml if present)")
	server := fs.String("server", "", "quiz backend base URL")
	timeout := fs.Duration("timeout", 0, "timeout for quiz generation and submission calls")
	profile := fs.String("profile", "", "profile storage path, or \"memory\"")
	logMode := fs.String("log-mode", "", "log mode: dev or prod")
	logFile := fs.String("log-file", "", "write logs to this rotating file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("quiz-client")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if *server != "" {
		v.Set("api.base_url", *server)
	}
	if *timeout > 0 {
		v.Set("api.timeout", *timeout)
	}
	if *profile != "" {
		v.Set("profile.path", *profile)
	}
	if *logMode != "" {
		v.Set("log.mode", *logMode)
	}
	if *logFile != "" {
		v.Set("log.file", *logFile)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("api.base_url")), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Profile: ProfileConfig{Path: strings.TrimSpace(v.GetString("profile.path"))},
		Log: LogConfig{
			Mode: v.GetString("log.mode"),
			File: v.GetString("log.file"),
		},
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultBaseURL
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = defaultTimeout
	}
	if cfg.Profile.Path == "" {
		cfg.Profile.Path = defaultProfilePath
	}
	return cfg, nil
}
