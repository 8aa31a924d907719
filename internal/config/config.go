package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The configuration is loaded once in main and
// passed by value into the components that need it; nothing reads the
// environment after startup.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign access tokens; rotating it logs everyone out
	AccessTTLMin   int    // access token time-to-live in minutes
	BcryptCost     int    // bcrypt cost for password hashing
	RetentionHours int    // hours an unverified account may exist before cleanup
	Mail           MailConfig
}

// MailConfig carries the Microsoft Graph sendMail settings. All fields are
// optional; when TenantID, ClientID or ClientSecret is empty the mail sender
// is disabled and outbound email is logged and dropped.
type MailConfig struct {
	TenantID     string // Azure AD tenant for the client-credentials flow
	ClientID     string // application (client) id
	ClientSecret string // client secret
	SenderUser   string // mailbox used for the sendMail endpoint
	FromAlias    string // address shown in the From header
	ContactEmail string // recipient of contact-form relays
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   intOr("ACCESS_TOKEN_TTL_MIN", 30),
		BcryptCost:     intOr("BCRYPT_COST", 12),
		RetentionHours: intOr("CLEANUP_RETENTION_HOURS", 2),
		Mail: MailConfig{
			TenantID:     os.Getenv("MSAL_TENANT_ID"),
			ClientID:     os.Getenv("MSAL_CLIENT_ID"),
			ClientSecret: os.Getenv("MSAL_CLIENT_SECRET"),
			SenderUser:   os.Getenv("MSAL_SENDER_USER"),
			FromAlias:    os.Getenv("MSAL_FROM_ALIAS"),
			ContactEmail: os.Getenv("CONTACT_EMAIL"),
		},
	}
}

// Enabled reports whether enough Graph settings are present to send mail.
func (m MailConfig) Enabled() bool {
	return m.TenantID != "" && m.ClientID != "" && m.ClientSecret != "" && m.SenderUser != ""
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

// intOr converts an optional environment variable into an integer, falling
// back to def when the variable is unset. An unparseable value is fatal.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
