package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// insecureJWTSecret is the fallback signing secret used when JWT_SECRET is
// unset.  It exists so the service can boot in development, and MUST be
// replaced in any real deployment; a warning is logged whenever it is used.
const insecureJWTSecret = "jwt_secret"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs, bools for policy switches.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign access tokens
    AccessTTLMin   int    // access token time-to-live in minutes
    BcryptCost     int    // bcrypt cost for password hashing
    OrgEmptyListOK bool   // when true, GET /api/organisations returns 200 with an empty list instead of 404
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  JWT_SECRET is the
// one secret with a fallback so local development works out of the box.
func Load() Config {
    secret := os.Getenv("JWT_SECRET")
    if secret == "" {
        log.Println("WARNING: JWT_SECRET not set, using insecure default; do not run this in production")
        secret = insecureJWTSecret
    }
    return Config{
        Env:            envStr("APP_ENV", "dev"),
        Port:           must("APP_PORT"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      secret,
        AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 60),
        BcryptCost:     envInt("BCRYPT_COST", 10),
        OrgEmptyListOK: envBool("ORG_EMPTY_LIST_OK", false),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
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

func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    switch v {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
        return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
        return false
    }
    return d
}
