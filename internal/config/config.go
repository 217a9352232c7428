package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the full configuration surface for the application.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Scylla    ScyllaConfig    `mapstructure:"scylla"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Carrier   CarrierConfig   `mapstructure:"carrier"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

type ScyllaConfig struct {
	Hosts       []string      `mapstructure:"hosts"`
	Port        int           `mapstructure:"port"`
	Keyspace    string        `mapstructure:"keyspace"`
	Consistency string        `mapstructure:"consistency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	ClientID        string        `mapstructure:"client_id"`
	VerdictTopic    string        `mapstructure:"verdict_topic"`
	ConsumerGroupID string        `mapstructure:"consumer_group_id"`
	CommitInterval  time.Duration `mapstructure:"commit_interval"`
}

type RedisConfig struct {
	Address      string        `mapstructure:"address"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

type TelemetryConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	ServiceName     string        `mapstructure:"service_name"`
	SampleRatio     float64       `mapstructure:"sample_ratio"`
	TracingEnabled  bool          `mapstructure:"tracing_enabled"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PolicyConfig holds the screening policy switches. Every flag defaults to
// the permissive side so a missing config never blocks legitimate calls.
type PolicyConfig struct {
	BlockingEnabled      bool          `mapstructure:"blocking_enabled"`
	BlockHiddenNumbers   bool          `mapstructure:"block_hidden_numbers"`
	BlockNonContacts     bool          `mapstructure:"block_non_contacts"`
	PatternBlocking      bool          `mapstructure:"pattern_blocking"`
	CarrierRiskFilter    bool          `mapstructure:"carrier_risk_filter"`
	BlockInternational   bool          `mapstructure:"block_international"`
	MuteInsteadOfBlock   bool          `mapstructure:"mute_instead_of_block"`
	RehabilitateOnClean  bool          `mapstructure:"rehabilitate_on_clean"`
	ContactsPermission   bool          `mapstructure:"contacts_permission"`
	PhoneStatePermission bool          `mapstructure:"phone_state_permission"`
	RaceTimeout          time.Duration `mapstructure:"race_timeout"`
}

// CarrierConfig describes the device/home-network context used by the
// international-call check.
type CarrierConfig struct {
	HomeCountry string `mapstructure:"home_country"` // ISO 3166-1 alpha-2, e.g. "FR"
}

// ProvidersConfig configures the external reputation lookups.
type ProvidersConfig struct {
	CacheEnabled  bool             `mapstructure:"cache_enabled"`
	CacheTTL      time.Duration    `mapstructure:"cache_ttl"`
	LookupTimeout time.Duration    `mapstructure:"lookup_timeout"`
	Entries       []ProviderConfig `mapstructure:"entries"`
}

// ProviderConfig configures a single named reputation provider.
type ProviderConfig struct {
	Name        string `mapstructure:"name"`
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	CountryHint int    `mapstructure:"country_hint"` // numeric locale hint, 0 = use default
}

// DefaultRaceTimeout bounds the provider race when unset.
const DefaultRaceTimeout = 5 * time.Second

// DefaultCountryHint is applied to providers without an explicit locale hint.
const DefaultCountryHint = 1

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("SCREEN")
	v.SetEnvKeyReplacer(NewEnvReplacer())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	if cfg.Policy.RaceTimeout <= 0 {
		cfg.Policy.RaceTimeout = DefaultRaceTimeout
	}

	return cfg, nil
}

// NewEnvReplacer standardizes environment variable names.
func NewEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}
