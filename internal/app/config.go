package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string `default:"0.0.0.0:4000" usage:"API server listen address"`
	DatabaseURL   string `usage:"PostgreSQL connection URL (STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	FrontendURL   string `default:"http://localhost:5173" usage:"Frontend base URL for post-payment redirects" flag:"frontend-url"`
	PublicBaseURL string `default:"http://localhost:4000" usage:"Externally reachable base URL of this service; the gateway return URL is built from it" flag:"public-base-url"`
	Gateway       GatewayConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
	Sweep         SweepConfig
}

// SweepConfig controls the pending-order reconciliation sweep.
type SweepConfig struct {
	OlderThan   time.Duration `default:"30m" usage:"Only sweep PENDING orders older than this" flag:"sweep-older-than"`
	Concurrency int           `default:"4"   usage:"Concurrent gateway confirms during a sweep" flag:"sweep-concurrency"`
}

// GatewayConfig holds the payment provider endpoint and merchant credentials.
// The defaults point at the provider's integration environment, which uses
// publicly documented test credentials.
type GatewayConfig struct {
	BaseURL      string        `default:"https://webpay3gint.transbank.cl/rswebpaytransaction/api/webpay/v1.2" usage:"Payment gateway API base URL" flag:"gateway-base-url"`
	CommerceCode string        `default:"597055555532" usage:"Merchant commerce code" flag:"gateway-commerce-code"`
	APIKey       string        `default:"579B532A7440BB0C9079DED94D31EA1615BACEB56610332264630D42D0A36B1C" usage:"Merchant API key (STORE_GATEWAY_API_KEY)" flag:"gateway-api-key"`
	Timeout      time.Duration `default:"10s" usage:"Per-call gateway timeout" flag:"gateway-timeout"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// ReturnURL is where the gateway sends the customer back after they act.
func (c *Config) ReturnURL() string {
	return c.PublicBaseURL + "/checkout/confirm"
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set STORE_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's STORE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:4000" {
		c.Addr = "0.0.0.0:" + port
	}
	if domain := os.Getenv("RAILWAY_PUBLIC_DOMAIN"); domain != "" && c.PublicBaseURL == "http://localhost:4000" {
		c.PublicBaseURL = "https://" + domain
	}
}
