package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Crawler CrawlerConfig
	Browser BrowserConfig
	Output  OutputConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type CrawlerConfig struct {
	BaseURL       string
	SiteOrigin    string
	PageCount     int
	PageDelay     time.Duration
	RenderTimeout time.Duration
	Concurrency   int
}

type BrowserConfig struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
}

type OutputConfig struct {
	ProductsPath string
	SkusPath     string
	CatalogPath  string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Crawler: CrawlerConfig{
			BaseURL:       getEnvOrDefault("CRAWLER_BASE_URL", "https://www.lojaexemplo.com.br/colecao"),
			SiteOrigin:    getEnvOrDefault("CRAWLER_SITE_ORIGIN", "https://www.lojaexemplo.com.br"),
			PageCount:     getIntOrDefault("CRAWLER_PAGE_COUNT", 10),
			PageDelay:     getDurationOrDefault("CRAWLER_PAGE_DELAY", 2*time.Second),
			RenderTimeout: getDurationOrDefault("CRAWLER_RENDER_TIMEOUT", 30*time.Second),
			Concurrency:   getIntOrDefault("CRAWLER_CONCURRENCY", 5),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "pt-BR,pt;q=0.9,en;q=0.8"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "America/Sao_Paulo"),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "pt-BR"),
		},
		Output: OutputConfig{
			ProductsPath: getEnvOrDefault("OUTPUT_PRODUCTS_PATH", "data/products.json"),
			SkusPath:     getEnvOrDefault("OUTPUT_SKUS_PATH", "data/skus.json"),
			CatalogPath:  getEnvOrDefault("OUTPUT_CATALOG_PATH", "data/catalog.json"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Crawler.BaseURL == "" {
		return fmt.Errorf("CRAWLER_BASE_URL must not be empty")
	}

	if c.Crawler.SiteOrigin == "" {
		return fmt.Errorf("CRAWLER_SITE_ORIGIN must not be empty")
	}

	if c.Crawler.PageCount < 1 {
		return fmt.Errorf("CRAWLER_PAGE_COUNT must be at least 1")
	}

	if c.Crawler.Concurrency < 1 {
		return fmt.Errorf("CRAWLER_CONCURRENCY must be at least 1")
	}

	if c.Crawler.PageDelay < 0 {
		return fmt.Errorf("CRAWLER_PAGE_DELAY must not be negative")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
