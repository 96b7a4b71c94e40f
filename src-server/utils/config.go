package utils

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	port string

	location     *time.Location
	databasePath string
	logLevel     slog.Level

	metricCollectionInterval time.Duration

	icsProdID    string
	icsUIDDomain string
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),
		logLevel: func() slog.Level {
			logLevelStr := os.Getenv("LOG_LEVEL")
			if logLevelStr == "" {
				return slog.LevelDebug
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevelStr))); err != nil {
				slog.Error("invalid LOG_LEVEL", "error", err)
				os.Exit(1)
			}
			return level
		}(),

		metricCollectionInterval: func() time.Duration {
			interval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if interval == "" {
				interval = "15s"
			}
			duration, err := time.ParseDuration(interval)
			if err != nil || duration <= 0 {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "value", interval, "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", duration)
			return duration
		}(),

		icsProdID: func() string {
			prodID := os.Getenv("ICS_PRODID")
			if prodID == "" {
				prodID = "-//ESL Team//Running Data//FR"
			}
			slog.Debug("env", "ICS_PRODID", prodID)
			return prodID
		}(),
		icsUIDDomain: func() string {
			domain := os.Getenv("ICS_UID_DOMAIN")
			if domain == "" {
				domain = "eslteam.com"
			}
			slog.Debug("env", "ICS_UID_DOMAIN", domain)
			return domain
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get TIMEZONE env, the time reference of every stored date
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get LOG_LEVEL env, default to debug
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get ICS_PRODID env
func (c *Config) GetIcsProdID() string {
	return c.icsProdID
}

// Get ICS_UID_DOMAIN env
func (c *Config) GetIcsUIDDomain() string {
	return c.icsUIDDomain
}
