package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Sensors   SensorsConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Costing   CostingConfig
	Sites     []SiteConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SensorsConfig contains credentials and options for the environment sensor gateway.
type SensorsConfig struct {
	BaseURL      string
	APIKey       string
	PollSchedule string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	SnapshotSchedule string
	Timezone         string
}

// CostingConfig holds the cost-allocation parameters.
type CostingConfig struct {
	OverheadRate         float64
	PackagingCostPerUnit float64
}

// SiteConfig names a production site and its kind (farming or processing),
// which routes utility expenses in the P&L.
type SiteConfig struct {
	Name string
	Kind string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	overheadRate, err := getenvFloat("COSTING_OVERHEAD_RATE", 0.15)
	if err != nil {
		return nil, err
	}
	packagingCost, err := getenvFloat("COSTING_PACKAGING_COST_PER_UNIT", 0.85)
	if err != nil {
		return nil, err
	}

	sites, err := parseSites(getenvWithDefault("SITES", "main:farming"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "mycofarm"),
		},
		Sensors: SensorsConfig{
			BaseURL:      os.Getenv("SENSOR_GATEWAY_URL"),
			APIKey:       os.Getenv("SENSOR_GATEWAY_API_KEY"),
			PollSchedule: getenvWithDefault("SENSOR_POLL_SCHEDULE", "@every 15m"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			SnapshotSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:         getenvWithDefault("TIMEZONE", "UTC"),
		},
		Costing: CostingConfig{
			OverheadRate:         overheadRate,
			PackagingCostPerUnit: packagingCost,
		},
		Sites: sites,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Sensors.BaseURL == "" {
		return errors.New("SENSOR_GATEWAY_URL must be provided")
	}
	if c.Sensors.PollSchedule == "" {
		return errors.New("SENSOR_POLL_SCHEDULE must not be empty")
	}

	if c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}
	if c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
	}

	if c.Reporting.SnapshotSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}
	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Costing.OverheadRate < 0 || c.Costing.OverheadRate >= 1 {
		return fmt.Errorf("COSTING_OVERHEAD_RATE must be in [0,1), got %f", c.Costing.OverheadRate)
	}

	if len(c.Sites) == 0 {
		return errors.New("SITES must name at least one site")
	}
	for _, site := range c.Sites {
		if site.Kind != "farming" && site.Kind != "processing" {
			return fmt.Errorf("site %s: kind must be farming or processing, got %q", site.Name, site.Kind)
		}
	}

	return nil
}

// SiteKindFor returns the configured kind for a site name, defaulting to
// farming for unknown sites.
func (c *Config) SiteKindFor(name string) string {
	for _, site := range c.Sites {
		if site.Name == name {
			return site.Kind
		}
	}
	return "farming"
}

// parseSites reads the "name:kind,name:kind" SITES format.
func parseSites(raw string) ([]SiteConfig, error) {
	var sites []SiteConfig
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 2)
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("SITES entry %q: expected name:kind", part)
		}
		sites = append(sites, SiteConfig{Name: fields[0], Kind: fields[1]})
	}
	return sites, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric, got %q", key, raw)
	}
	return value, nil
}
