package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DirectoryOff       = "off"
	DirectoryFiltered  = "filtered"
	DirectoryAllowlist = "allowlist"

	ManagerMatchFirst  = "first"
	ManagerMatchReject = "reject"
)

type Config struct {
	Addr                string
	DatabaseURL         string
	JWTSecret           string
	TokenTTL            time.Duration
	DataEncryptionKey   string
	Environment         string
	SeedAdminEmail      string
	SeedAdminPassword   string
	EmailFrom           string
	EmailEnabled        bool
	SMTPHost            string
	SMTPPort            int
	SMTPUser            string
	SMTPPassword        string
	SMTPUseTLS          bool
	RunMigrations       bool
	RunSeed             bool
	MaxBodyBytes        int64
	MaxUploadBytes      int64
	RateLimit           string
	MetricsEnabled      bool
	StorageDir          string
	RBACPolicyFile      string
	PublicDirectory     string
	ManagerAmbiguity    string
	ResetTokenTTL       time.Duration
	SettlementPending   decimal.Decimal
	SettlementLeave     decimal.Decimal
	SettlementGratuity  decimal.Decimal
	SettlementDeduction decimal.Decimal
}

// Load reads a .env file when present and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Addr:                getEnv("APP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTL:            getEnvDuration("TOKEN_TTL", time.Hour),
		DataEncryptionKey:   getEnv("DATA_ENCRYPTION_KEY", ""),
		Environment:         getEnv("APP_ENV", "development"),
		SeedAdminEmail:      getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:   getEnv("SEED_ADMIN_PASSWORD", ""),
		EmailFrom:           getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled:        getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:          getEnvBool("SMTP_USE_TLS", true),
		RunMigrations:       getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:             getEnvBool("RUN_SEED", true),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_BYTES", 10485760)),
		RateLimit:           getEnv("RATE_LIMIT", "120-M"),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
		StorageDir:          getEnv("STORAGE_DIR", "data/files"),
		RBACPolicyFile:      getEnv("RBAC_POLICY_FILE", ""),
		PublicDirectory:     strings.ToLower(getEnv("PUBLIC_DIRECTORY", DirectoryAllowlist)),
		ManagerAmbiguity:    strings.ToLower(getEnv("MANAGER_AMBIGUITY", ManagerMatchFirst)),
		ResetTokenTTL:       getEnvDuration("RESET_TOKEN_TTL", 2*time.Hour),
		SettlementPending:   getEnvDecimal("SETTLEMENT_PENDING_SALARY", decimal.NewFromInt(50000)),
		SettlementLeave:     getEnvDecimal("SETTLEMENT_LEAVE_ENCASHMENT", decimal.NewFromInt(10000)),
		SettlementGratuity:  getEnvDecimal("SETTLEMENT_GRATUITY", decimal.NewFromInt(25000)),
		SettlementDeduction: getEnvDecimal("SETTLEMENT_DEDUCTIONS", decimal.NewFromInt(5000)),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.MaxUploadBytes < c.MaxBodyBytes {
		return fmt.Errorf("MAX_UPLOAD_BYTES must not be smaller than MAX_BODY_BYTES")
	}
	if strings.TrimSpace(c.RateLimit) == "" {
		return fmt.Errorf("RATE_LIMIT must be set, e.g. 120-M")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if strings.TrimSpace(c.StorageDir) == "" {
		return fmt.Errorf("STORAGE_DIR is required")
	}
	switch c.PublicDirectory {
	case DirectoryOff, DirectoryFiltered, DirectoryAllowlist:
	default:
		return fmt.Errorf("PUBLIC_DIRECTORY must be one of off, filtered, allowlist")
	}
	switch c.ManagerAmbiguity {
	case ManagerMatchFirst, ManagerMatchReject:
	default:
		return fmt.Errorf("MANAGER_AMBIGUITY must be one of first, reject")
	}
	for name, value := range map[string]decimal.Decimal{
		"SETTLEMENT_PENDING_SALARY":   c.SettlementPending,
		"SETTLEMENT_LEAVE_ENCASHMENT": c.SettlementLeave,
		"SETTLEMENT_GRATUITY":         c.SettlementGratuity,
		"SETTLEMENT_DEDUCTIONS":       c.SettlementDeduction,
	} {
		if value.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
