// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Similarity SimilarityConfig `mapstructure:"similarity"`
	Search     SearchConfig     `mapstructure:"search"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Auth Configuration ---

// AuthConfig holds settings for bearer-token authentication. Identity lives
// in an external IdP; this service only verifies the signed claims.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// --- Pricing Configuration ---

// PricingConfig carries the externally supplied pricing policy: the base
// price table, the ordered discount/increase rules and an optional campaign.
type PricingConfig struct {
	Currency   string                    `mapstructure:"currency"`
	BasePrices map[string]map[string]int `mapstructure:"base_prices"` // tier -> duration (days, as string key) -> price
	Rules      []PricingRule             `mapstructure:"rules"`
	Campaign   *CampaignConfig           `mapstructure:"campaign"`
}

// PricingRule is a single discount/increase rule expressed as data.
// Rules are evaluated in slice order; order affects the running total.
type PricingRule struct {
	ID        string        `mapstructure:"id"`
	Name      string        `mapstructure:"name"`
	Condition RuleCondition `mapstructure:"condition"`
	Effect    RuleEffect    `mapstructure:"effect"`
}

// RuleCondition matches a job draft plus employer context. Zero-valued
// fields are wildcards; all non-zero fields must match (AND semantics,
// platform_categories is any-of).
type RuleCondition struct {
	Category           string   `mapstructure:"category"`
	JobType            string   `mapstructure:"job_type"`
	PlatformCategories []string `mapstructure:"platform_categories"`
	EmployerTier       string   `mapstructure:"employer_tier"`
	Featured           *bool    `mapstructure:"featured"`
}

// RuleEffect is the tagged effect variant: discount or increase, as a fixed
// amount or a percentage of the running total.
type RuleEffect struct {
	Type    string  `mapstructure:"type"`    // "discount" | "increase"
	Amount  int     `mapstructure:"amount"`  // fixed amount, mutually exclusive with Percent
	Percent float64 `mapstructure:"percent"` // percentage of the running total
}

// CampaignConfig is an optional promotional campaign applied after all rules.
type CampaignConfig struct {
	ID         string     `mapstructure:"id"`
	Name       string     `mapstructure:"name"`
	Active     bool       `mapstructure:"active"`
	StartsAt   string     `mapstructure:"starts_at"` // RFC3339, empty = no bound
	EndsAt     string     `mapstructure:"ends_at"`
	Categories []string   `mapstructure:"categories"` // applicable categories, empty = all
	Effect     RuleEffect `mapstructure:"effect"`
}

// --- Similarity Configuration ---
type SimilarityConfig struct {
	CandidatePoolSize int `mapstructure:"candidate_pool_size"`
	DefaultLimit      int `mapstructure:"default_limit"`
	CacheTTL          int `mapstructure:"cache_ttl"` // seconds
}

// --- Search Configuration ---
type SearchConfig struct {
	Index        string `mapstructure:"index"`
	DefaultLimit int    `mapstructure:"default_limit"`
	MaxLimit     int    `mapstructure:"max_limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
