package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs the client-held session cookie (HS256). It
	// makes the cookie tamper-evident; token authority stays server-side.
	SessionSecret string `env:"SESSION_SECRET, default=dev-secret-change-me"`

	// EncryptionKey is the explicit field-encryption key (base64, 32
	// bytes). When empty, EncryptionKeyFile is consulted; when that is
	// also missing, a fresh key is generated and audited at WARNING.
	EncryptionKey     string `env:"ENCRYPTION_KEY"`
	EncryptionKeyFile string `env:"ENCRYPTION_KEY_FILE, default=config/encryption.key"`

	AuditLogPath string `env:"AUDIT_LOG_PATH, default=audit.log"`
	BackupDir    string `env:"BACKUP_DIR,     default=backups"`

	// SessionStore selects the session store backend: "memory" (default,
	// sessions die with the process) or "redis".
	SessionStore string `env:"SESSION_STORE, default=memory"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinical_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
