package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses the grace window durations
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Institution policy knobs (grace windows,
// visitor quota) live here rather than in code so each campus can tune
// them without a rebuild.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify guard/admin bearer tokens

	GraceBefore    time.Duration // how early before class start a scan still matches
	GraceAfter     time.Duration // how long after class end a scan still matches
	VisitorMaxUses uint32        // default scan quota for a freshly issued pass
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// Policy knobs fall back to the recommended defaults: 15 minutes of
// early arrival, no lingering after class, two scans per visitor pass
// (one entry plus one exit).
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		GraceBefore:    envDur("SCHEDULE_GRACE_BEFORE", 15*time.Minute),
		GraceAfter:     envDur("SCHEDULE_GRACE_AFTER", 0),
		VisitorMaxUses: uint32(envInt("VISITOR_MAX_USES", 2)),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
