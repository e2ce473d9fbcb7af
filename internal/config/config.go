package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
)

// Config represents the gateway configuration.
type Config struct {
	Server        ServerConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Planner       PlannerConfig
	Resilience    ResilienceConfig
	Redis         RedisConfig
	Providers     ProvidersConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"150"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// ObservabilityConfig contains logging and metrics export settings.
type ObservabilityConfig struct {
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// MetricsExporter is prometheus, stdout or none.
	MetricsExporter string `env:"METRICS_EXPORTER" envDefault:"prometheus"`
}

// PlannerConfig contains provider selection and model parameter defaults.
type PlannerConfig struct {
	Provider          string   `env:"AI_PROVIDER"        envDefault:"longcat"`
	DefaultProvider   string   `env:"DEFAULT_PROVIDER"   envDefault:"longcat"`
	FallbackProviders []string `env:"FALLBACK_PROVIDERS" envSeparator:","`
	MaxTokens         int      `env:"MAX_TOKENS"         envDefault:"8000"`
	Temperature       float64  `env:"TEMPERATURE"        envDefault:"0.7"`
	SystemPrompt      string   `env:"SYSTEM_PROMPT"`
}

// ResilienceConfig contains retry, circuit breaker, cache and worker pool settings.
type ResilienceConfig struct {
	RetryMaxAttempts  int           `env:"RETRY_MAX_ATTEMPTS"  envDefault:"3"`
	RetryInitialDelay time.Duration `env:"RETRY_INITIAL_DELAY" envDefault:"1s"`
	RetryMaxDelay     time.Duration `env:"RETRY_MAX_DELAY"     envDefault:"30s"`

	BreakerEnabled          bool          `env:"BREAKER_ENABLED"           envDefault:"true"`
	BreakerFailureThreshold int           `env:"BREAKER_FAILURE_THRESHOLD" envDefault:"5"`
	BreakerWindow           time.Duration `env:"BREAKER_WINDOW"            envDefault:"60s"`
	BreakerOpenDuration     time.Duration `env:"BREAKER_OPEN_DURATION"     envDefault:"30s"`

	CacheEnabled  bool          `env:"CACHE_ENABLED"  envDefault:"true"`
	CacheBackend  string        `env:"CACHE_BACKEND"  envDefault:"memory"`
	CacheTTL      time.Duration `env:"CACHE_TTL"      envDefault:"5m"`
	CacheCapacity int           `env:"CACHE_CAPACITY" envDefault:"500"`
	SingleFlight  bool          `env:"SINGLE_FLIGHT"  envDefault:"false"`

	WorkerPoolSize int `env:"WORKER_POOL_SIZE" envDefault:"8"`
}

// RedisConfig contains the shared cache backend connection settings.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR"       envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB"         envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"plangate:cache:"`
}

// VendorConfig overrides one built-in vendor. Empty fields keep the
// catalog value.
type VendorConfig struct {
	APIKey  string        `env:"API_KEY"`
	BaseURL string        `env:"BASE_URL"`
	Model   string        `env:"MODEL"`
	Timeout time.Duration `env:"TIMEOUT"`
}

// ProvidersConfig contains per-vendor overrides and the optional provider table file.
type ProvidersConfig struct {
	LongCat  VendorConfig `envPrefix:"LONGCAT_"`
	DeepSeek VendorConfig `envPrefix:"DEEPSEEK_"`
	OpenAI   VendorConfig `envPrefix:"OPENAI_"`
	Gemini   VendorConfig `envPrefix:"GEMINI_"`
	Groq     VendorConfig `envPrefix:"GROQ_"`
	IFlow    VendorConfig `envPrefix:"IFLOW_"`
	Claude   VendorConfig `envPrefix:"CLAUDE_"`
	Ollama   VendorConfig `envPrefix:"OLLAMA_"`

	File string `env:"PROVIDERS_FILE"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*ObservabilityConfig
	*PlannerConfig
	*ResilienceConfig
	*RedisConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Observability,
		&cfg.Planner,
		&cfg.Resilience,
		&cfg.Redis,
	}
}
