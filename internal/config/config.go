package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// Values come from an optional YAML file and are overridden by environment
// variables. Email secrets are allowed to be empty here; the contact
// endpoint reports them as a configuration failure per request.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"30s" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"1m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"20s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// EnablePprof mounts net/http/pprof under /debug/pprof/
		EnablePprof bool `env:"HTTP_ENABLE_PPROF" env-default:"false" yaml:"enablePprof"`
		// CORSOrigins lists origins allowed to call the API from a browser
		CORSOrigins []string `env:"HTTP_CORS_ORIGINS" env-default:"*" env-separator:"," yaml:"corsOrigins"`
	} `yaml:"http"`

	// Site configures static file serving
	Site struct {
		// Dir is the directory holding the static site, including partials/
		Dir string `env:"SITE_DIR" env-default:"public" yaml:"dir"`
		// Prerender injects the layout fragments into HTML pages on the server
		Prerender bool `env:"SITE_PRERENDER" env-default:"false" yaml:"prerender"`
	} `yaml:"site"`

	// Layout names the fragments and the page regions they mount into
	Layout struct {
		HeaderURL      string `env:"LAYOUT_HEADER_URL" env-default:"/partials/header.html" yaml:"headerURL"`
		FooterURL      string `env:"LAYOUT_FOOTER_URL" env-default:"/partials/footer.html" yaml:"footerURL"`
		HeaderTargetID string `env:"LAYOUT_HEADER_TARGET_ID" env-default:"site-header" yaml:"headerTargetID"`
		FooterTargetID string `env:"LAYOUT_FOOTER_TARGET_ID" env-default:"site-footer" yaml:"footerTargetID"`
		// FetchTimeout bounds a single fragment fetch
		FetchTimeout time.Duration `env:"LAYOUT_FETCH_TIMEOUT" env-default:"5s" yaml:"fetchTimeout"`
	} `yaml:"layout"`

	// Contact configures the contact endpoint and its email provider
	Contact struct {
		// ResendAPIKey authenticates against the email provider
		ResendAPIKey string `env:"RESEND_API_KEY" yaml:"resendAPIKey"`
		// ResendAPIURL is the provider send endpoint
		ResendAPIURL string `env:"RESEND_API_URL" env-default:"https://api.resend.com/emails" yaml:"resendAPIURL"`
		// To is the destination address for contact messages
		To string `env:"CONTACT_TO" yaml:"to"`
		// From is the sender address used for contact messages
		From string `env:"CONTACT_FROM" yaml:"from"`
		// MaxBodyBytes caps the request body size
		MaxBodyBytes int64 `env:"CONTACT_MAX_BODY_BYTES" env-default:"65536" yaml:"maxBodyBytes"`
		// SendTimeout bounds the provider call
		SendTimeout time.Duration `env:"CONTACT_SEND_TIMEOUT" env-default:"10s" yaml:"sendTimeout"`
	} `yaml:"contact"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config
// struct. An empty path reads the environment only.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read env: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
