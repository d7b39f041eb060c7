package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete gateway configuration, loadable from environment
// variables (GATEWAY_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"gateway listen address"`
	Upstreams UpstreamsConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// UpstreamsConfig locates the five backend services. Defaults match the
// local docker-compose port layout.
type UpstreamsConfig struct {
	UserURL         string        `default:"http://localhost:8081" usage:"user service base URL" flag:"user-url"`
	RestaurantURL   string        `default:"http://localhost:8082" usage:"restaurant service base URL" flag:"restaurant-url"`
	OrderURL        string        `default:"http://localhost:8083" usage:"order service base URL" flag:"order-url"`
	PaymentURL      string        `default:"http://localhost:8084" usage:"payment service base URL" flag:"payment-url"`
	NotificationURL string        `default:"http://localhost:8085" usage:"notification service base URL" flag:"notification-url"`
	Timeout         time.Duration `default:"5s" usage:"per-call upstream timeout"`
}

// RateLimitConfig controls the per-client token bucket limiter.
type RateLimitConfig struct {
	RPS   float64 `default:"50" usage:"sustained requests per second per client"`
	Burst int     `default:"100" usage:"burst size per client"`
}

// CORSConfig controls cross-origin access for the storefront SPA.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform-provided defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "GATEWAY",
		Files:     []string{"config.yaml", "/etc/storefront-gateway/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	return &cfg, nil
}

// applyPlatformDefaults maps standard platform environment variables (PORT on
// Railway, Render, etc.) onto the gateway configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
