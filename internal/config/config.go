package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Data acquisition
	DataBackend string // csv | published | sheets
	CSVDir      string
	// DriverSheets maps a driver name to a published-CSV export URL.
	DriverSheets map[string]string

	// Google Sheets (private spreadsheets via the Sheets API)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// AMQP refresh queue (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Run archive (optional; empty path disables it)
	ArchiveDBPath string

	// Report artifacts
	OutputDir string

	// Dashboard cache
	CacheTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "csv"),
		CSVDir:       getEnv("MILEAGE_CSV_DIR", "."),
		DriverSheets: parseDriverSheets(getEnv("DRIVER_SHEETS", "")),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Mileage"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "mileage"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_refresh"),

		ArchiveDBPath: getEnv("ARCHIVE_DB_PATH", ""),

		OutputDir: getEnv("OUTPUT_DIR", "./mileage_outputs"),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
	}
	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"csv", "published", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "csv":
		if c.CSVDir == "" {
			errors = append(errors, "CSV directory cannot be empty when using csv backend")
		}
	case "published":
		if len(c.DriverSheets) == 0 {
			errors = append(errors, "DRIVER_SHEETS must list at least one driver=url pair when using published backend")
		}
		for driver, sheetURL := range c.DriverSheets {
			if u, err := url.Parse(sheetURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				errors = append(errors, fmt.Sprintf("invalid published sheet URL for driver '%s': %s", driver, sheetURL))
			}
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets backend")
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ArchiveDBPath != "" {
		dir := filepath.Dir(c.ArchiveDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create archive database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive", c.CacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

// parseDriverSheets parses "Name=URL,Name=URL" into a map. Malformed
// pairs are skipped; Validate catches the empty-map case.
func parseDriverSheets(raw string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, sheetURL, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		sheetURL = strings.TrimSpace(sheetURL)
		if !ok || name == "" || sheetURL == "" {
			continue
		}
		out[name] = sheetURL
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
