// internal/config/config.go
//
// Runtime configuration for the Cosmic Word server.
//
// Values come from command line flags, falling back to COSMIC_* environment
// variables (a .env file is loaded first, if present), then to defaults.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "COSMIC"

	// DevSecret is the fallback JWT secret for local development.
	DevSecret = "dev_secret_change_me"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Bind           string
	Port           int
	DB             string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	WordsDir       string
	DailySalt      string
	LogLevel       string
	Pretty         bool
	SeedDemo       bool
	SecureCookies  bool
	SessionTTL     time.Duration
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// TokenTTL is the lifetime of issued session tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.DB == "" {
		return errors.New("--db must not be empty")
	}
	if c.JWTSecret == "" {
		return errors.New("--jwt-secret must not be empty")
	}
	if c.JWTExpiresDays < 1 {
		return fmt.Errorf("invalid --jwt-expires-days: %d", c.JWTExpiresDays)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid --session-ttl: %s", c.SessionTTL)
	}
	if c.CookieName == "" {
		return errors.New("--cookie-name must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", c.LogLevel, err)
	}
	if c.WordsDir != "" {
		if st, err := os.Stat(c.WordsDir); err != nil || !st.IsDir() {
			return fmt.Errorf("--words-dir %q is not a directory", c.WordsDir)
		}
	}
	return nil
}

// SetupLogging configures the global zerolog logger.
func (c *Config) SetupLogging() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if c.JWTSecret == DevSecret {
		log.Warn().Msg("using development JWT secret; set COSMIC_JWT_SECRET in production")
	}
}

// NewCommand builds the root command. run is invoked with the validated config.
func NewCommand(cfg *Config, version string, run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "cosmicword",
		Short:         "A space-themed word puzzle server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.SetupLogging()
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: COSMIC_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 5175, "port to listen on (env: COSMIC_PORT)")
	fs.StringVar(&cfg.DB, "db", "./data/cosmicword.db", "path to the SQLite database (env: COSMIC_DB)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", DevSecret, "HS256 signing secret (env: COSMIC_JWT_SECRET)")
	fs.IntVar(&cfg.JWTExpiresDays, "jwt-expires-days", 14, "session token lifetime in days (env: COSMIC_JWT_EXPIRES_DAYS)")
	fs.StringVar(&cfg.CookieName, "cookie-name", "cosmic_token", "auth cookie name (env: COSMIC_COOKIE_NAME)")
	fs.StringVar(&cfg.ClientOrigin, "client-origin", "http://localhost:5173", "allowed CORS origin (env: COSMIC_CLIENT_ORIGIN)")
	fs.StringVar(&cfg.WordsDir, "words-dir", "", "directory with <tier>.txt word lists overriding the built-in ones (env: COSMIC_WORDS_DIR)")
	fs.StringVar(&cfg.DailySalt, "daily-salt", "local_dev_salt", "secret salt for the daily puzzle schedule (env: COSMIC_DAILY_SALT)")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level: trace, debug, info, warn, error (env: COSMIC_LOG_LEVEL)")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "human readable console logs (env: COSMIC_PRETTY)")
	fs.BoolVar(&cfg.SeedDemo, "seed-demo", false, "add demo players to the leaderboard (env: COSMIC_SEED_DEMO)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 12*time.Hour, "evict puzzle sessions idle for this long (env: COSMIC_SESSION_TTL)")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", false, "mark cookies Secure with SameSite=None (env: COSMIC_SECURE_COOKIES)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("cosmicword v{{.Version}}\n")

	return cmd
}
