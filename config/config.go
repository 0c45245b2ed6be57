// Package config reads runtime settings from the environment and an optional
// .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/plus3/metris/audio"
	"github.com/plus3/metris/highscore"
	log "github.com/sirupsen/logrus"
)

// Highscore backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	LogLevel string

	HighscoreBackend string
	HighscoreDir     string
	HighscoreKey     string
	RedisAddr        string
	RedisPassword    string
	DatabaseURL      string

	Music       bool
	SFX         bool
	MusicVolume float64
	SFXVolume   float64

	// Seed for the piece randomizer; zero picks a random seed.
	Seed    uint64
	DebugUI bool
}

// Load reads .env files (missing files are ignored) and then the
// environment. Variables already set in the environment win over .env.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		LogLevel:         GetEnv("METRIS_LOG_LEVEL", "info"),
		HighscoreBackend: strings.ToLower(GetEnv("METRIS_HIGHSCORE_BACKEND", BackendFile)),
		HighscoreDir:     GetEnv("METRIS_HIGHSCORE_DIR", defaultDataDir()),
		HighscoreKey:     GetEnv("METRIS_HIGHSCORE_KEY", highscore.DefaultKey),
		RedisAddr:        GetEnv("METRIS_REDIS_ADDR", "localhost:6379"),
		RedisPassword:    GetEnv("METRIS_REDIS_PASSWORD", ""),
		DatabaseURL:      GetEnv("METRIS_DATABASE_URL", ""),
		Music:            GetEnvAsBool("METRIS_MUSIC", true),
		SFX:              GetEnvAsBool("METRIS_SFX", true),
		MusicVolume:      clampVolume(GetEnvAsFloat("METRIS_MUSIC_VOLUME", 0.2)),
		SFXVolume:        clampVolume(GetEnvAsFloat("METRIS_SFX_VOLUME", 0.3)),
		Seed:             GetEnvAsUint64("METRIS_SEED", 0),
		DebugUI:          GetEnvAsBool("METRIS_DEBUG_UI", false),
	}
}

func clampVolume(v float64) float64 {
	return max(0, min(1, v))
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "metris")
}

// SetupLogging configures the standard logrus logger.
func SetupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// OpenHighscores opens the configured store. Redis and PostgreSQL failures
// fall back to the file store so a missing server never blocks play. The
// returned close function releases the backend connection.
func (c *Config) OpenHighscores(ctx context.Context) (*highscore.Table, func() error) {
	store, closeFn := c.openStore(ctx)
	return highscore.Open(ctx, store, highscore.Options{}), closeFn
}

func (c *Config) openStore(ctx context.Context) (highscore.Store, func() error) {
	noop := func() error { return nil }

	switch c.HighscoreBackend {
	case BackendMemory:
		return highscore.NewMemoryStore(), noop
	case BackendRedis:
		store, err := highscore.DialRedis(ctx, c.RedisAddr, c.RedisPassword, c.HighscoreKey)
		if err == nil {
			log.WithField("addr", c.RedisAddr).Info("highscores stored in redis")
			return store, store.Close
		}
		log.WithError(err).Warn("redis unavailable, falling back to file highscores")
	case BackendPostgres:
		store, err := highscore.OpenPostgres(ctx, c.DatabaseURL, c.HighscoreKey)
		if err == nil {
			log.Info("highscores stored in postgres")
			return store, store.Close
		}
		log.WithError(err).Warn("postgres unavailable, falling back to file highscores")
	case BackendFile:
	default:
		log.Warnf("unknown highscore backend %q, using file", c.HighscoreBackend)
	}

	store := highscore.NewFileStore(c.HighscoreDir, c.HighscoreKey)
	log.WithField("path", store.Path()).Debug("highscores stored in file")
	return store, noop
}

// AudioOptions returns the sound manager settings.
func (c *Config) AudioOptions() audio.Options {
	return audio.Options{
		Music:       c.Music,
		SFX:         c.SFX,
		MusicVolume: c.MusicVolume,
		SFXVolume:   c.SFXVolume,
		Seed:        c.Seed,
	}
}
