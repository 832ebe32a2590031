package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr         = ":8383"
	DefaultSessionLimit = 256
)

// Env is the process environment the binaries run with.
type Env struct {
	ConfigPath       string
	TrainingServer   string
	PredictionServer string
	Addr             string
	JournalPath      string
	SessionLimit     int
	LogLevel         string
	LogFormat        string
}

// LoadEnv loads the given dotenv files (".env" when none are named) into the
// process environment without overriding variables already set, then reads
// the environment. Missing dotenv files are not an error.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return ReadEnv(os.LookupEnv)
}

// ReadEnv builds an Env from lookup, applying defaults.
func ReadEnv(lookup func(string) (string, bool)) (Env, error) {
	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	env := Env{
		ConfigPath:       get("CONFIG_PATH"),
		TrainingServer:   get("TRAINING_SERVER"),
		PredictionServer: get("PREDICTION_SERVER"),
		Addr:             firstNonEmpty(get("ADDR"), DefaultAddr),
		JournalPath:      get("JOURNAL_PATH"),
		SessionLimit:     DefaultSessionLimit,
		LogLevel:         firstNonEmpty(get("LOG_LEVEL"), "info"),
		LogFormat:        firstNonEmpty(get("LOG_FORMAT"), "text"),
	}

	if raw := get("SESSION_LIMIT"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return Env{}, fmt.Errorf("config: SESSION_LIMIT must be a positive integer, got %q", raw)
		}
		env.SessionLimit = limit
	}
	return env, nil
}

// Validate reports the required variables that are unset.
func (e Env) Validate() error {
	var missing []string
	if e.ConfigPath == "" {
		missing = append(missing, "CONFIG_PATH")
	}
	if e.TrainingServer == "" {
		missing = append(missing, "TRAINING_SERVER")
	}
	if e.PredictionServer == "" {
		missing = append(missing, "PREDICTION_SERVER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment: %s", strings.Join(missing, ", "))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
