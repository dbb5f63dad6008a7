// Package config loads matcher service configuration from a YAML file with
// environment variable overrides.
package config

// Default configuration values.
const (
	defaultServiceName     = "matcher"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8085
	defaultConcurrency     = 10
	defaultBatchSize       = 100
	defaultDBDriver        = "sqlite3"
	defaultDBPath          = "matcher.db"
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "matcher"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 25
	defaultDBMaxIdleConns  = 5
	defaultLogLevel        = "info"
	defaultStore           = "daiso"
	defaultMatchThreshold  = 40.0
	defaultReviewThreshold = 0.7
	defaultMinMatchScore   = 0.25
	defaultMaxPerVideo     = 10
	defaultMinTranscript   = 300
	defaultSweepRPS        = 20
)

// Config holds all configuration for the matcher service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Matching MatchingConfig `yaml:"matching"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Port        int    `env:"MATCHER_PORT"        yaml:"port"`
	Debug       bool   `env:"APP_DEBUG"           yaml:"debug"`
	Concurrency int    `env:"MATCHER_CONCURRENCY" yaml:"concurrency"`
	BatchSize   int    `yaml:"batch_size"`
	Store       string `env:"MATCHER_STORE"       yaml:"store"` // Canonical store key for quality-gate hints
	SweepRPS    int    `yaml:"sweep_rps"`                       // Bulk sweep rate limit
}

// DatabaseConfig holds database configuration. Driver selects between the
// single-node sqlite deployment and a shared postgres deployment.
type DatabaseConfig struct {
	Driver       string `env:"DB_DRIVER"         yaml:"driver"` // "sqlite3" or "postgres"
	Path         string `env:"SQLITE_PATH"       yaml:"path"`   // sqlite only
	Host         string `env:"POSTGRES_HOST"     yaml:"host"`
	Port         int    `env:"POSTGRES_PORT"     yaml:"port"`
	User         string `env:"POSTGRES_USER"     yaml:"user"`
	Password     string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database     string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode      string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConns     int    `yaml:"max_connections"`
	MaxIdleConns int    `yaml:"max_idle_connections"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// MatchingConfig holds the matching and quality-gate thresholds. The two
// match threshold variants (strict 40, lenient 20) are both valid values;
// deployments pick one here.
type MatchingConfig struct {
	MatchThreshold      float64 `env:"MATCH_THRESHOLD"  yaml:"match_threshold"`
	ReviewThreshold     float64 `env:"REVIEW_THRESHOLD" yaml:"review_threshold"`
	MinMatchScore       float64 `yaml:"min_match_score"`
	MaxProductsPerVideo int     `yaml:"max_products_per_video"`
	MinTranscriptLength int     `yaml:"min_transcript_length"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	setMatchingDefaults(&cfg.Matching)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.BatchSize == 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.Store == "" {
		s.Store = defaultStore
	}
	if s.SweepRPS == 0 {
		s.SweepRPS = defaultSweepRPS
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = defaultDBDriver
	}
	if d.Path == "" {
		d.Path = defaultDBPath
	}
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConns == 0 {
		d.MaxConns = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
}

func setMatchingDefaults(m *MatchingConfig) {
	if m.MatchThreshold == 0 {
		m.MatchThreshold = defaultMatchThreshold
	}
	if m.ReviewThreshold == 0 {
		m.ReviewThreshold = defaultReviewThreshold
	}
	if m.MinMatchScore == 0 {
		m.MinMatchScore = defaultMinMatchScore
	}
	if m.MaxProductsPerVideo == 0 {
		m.MaxProductsPerVideo = defaultMaxPerVideo
	}
	if m.MinTranscriptLength == 0 {
		m.MinTranscriptLength = defaultMinTranscript
	}
}
