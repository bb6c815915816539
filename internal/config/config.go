package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  JWTSecret and DBDSN have no defaults: the
// process refuses to start without them.
type Config struct {
	Env         string   // application environment (e.g. "dev", "prod")
	Port        string   // HTTP port to listen on
	DBDSN       string   // MySQL DSN, e.g. user:pass@tcp(host:3306)/store_rating
	DBMigrate   bool     // apply embedded migrations at startup
	JWTSecret   string   // secret used to sign JWTs
	BcryptCost  int      // bcrypt cost for password hashing
	LogLevel    string   // debug | info | warn | error
	LogFormat   string   // json | text
	CORSOrigins []string // allowed origins for the browser client

	AdminName     string // bootstrap admin, created when email and password are set
	AdminEmail    string
	AdminPassword string

	RabbitURL             string // empty disables rating events
	RatingConsumerEnabled bool   // run the rating event consumer in-process
	RatingLogPath         string // file the consumer appends to
}

// MissingEnvError lists every required variable that was not set.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return "missing required env var(s): " + strings.Join(e.Keys, ", ")
}

// Load reads configuration values from the environment.  A .env file in
// the working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "8080"),
		DBDSN:       must("DB_DSN"),
		DBMigrate:   envBool("DB_MIGRATE", true),
		JWTSecret:   must("JWT_SECRET"),
		BcryptCost:  envInt("BCRYPT_COST", 10),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		LogFormat:   envStr("LOG_FORMAT", "json"),
		CORSOrigins: splitList(envStr("CORS_ORIGINS", "*")),

		AdminName:     envStr("ADMIN_NAME", "System Administrator Account"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		RabbitURL:             firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		RatingConsumerEnabled: envBool("RATING_CONSUMER_ENABLED", false),
		RatingLogPath:         envStr("RATING_LOG_PATH", "logs/rating.log"),
	}
	if len(missing) > 0 {
		return Config{}, &MissingEnvError{Keys: missing}
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("invalid BCRYPT_COST %d: must be between 4 and 31", cfg.BcryptCost)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
