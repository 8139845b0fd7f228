package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/stroke-triage-server/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("STROKE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.rate_limit_rps", 10.0)
	viper.SetDefault("server.rate_limit_burst", 20)

	// Record store defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.database", "stroke_triage")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.sqlite_path", "./data/stroke_triage.db")
	viper.SetDefault("database.migrations_path", "./migrations")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// Guideline defaults: the simplified demonstration thresholds. Every one
	// of these is overridable via config file or STROKE_* env without a code
	// change.
	viper.SetDefault("guidelines.thrombolysis_window_hours", 4.5)
	viper.SetDefault("guidelines.thrombectomy_window_hours", 6.0)
	viper.SetDefault("guidelines.nihss_min_severity", 4)
	viper.SetDefault("guidelines.aspects_min_favorable", 6)
	viper.SetDefault("guidelines.tpa_dose_mg_per_kg", 0.9)
	viper.SetDefault("guidelines.tpa_max_dose_mg", 90.0)
	viper.SetDefault("guidelines.tpa_max_systolic_bp", 185)
	viper.SetDefault("guidelines.tpa_max_diastolic_bp", 110)
	viper.SetDefault("guidelines.permissive_systolic_bp", 220)
	viper.SetDefault("guidelines.permissive_diastolic_bp", 120)
	viper.SetDefault("guidelines.aspects_mild_threshold", 8)
	viper.SetDefault("guidelines.aspects_moderate_threshold", 5)
	viper.SetDefault("guidelines.door_to_ct_minutes", 20)
	viper.SetDefault("guidelines.door_to_needle_minutes", 60)
	viper.SetDefault("guidelines.door_to_puncture_minutes", 90)

	// Facility defaults
	viper.SetDefault("facility.name", "Acute Stroke Ready Hospital")
	viper.SetDefault("facility.thrombectomy_capable", false)
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetDatabaseConfig returns record store configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetGuidelines returns the clinical guideline constants
func (m *Manager) GetGuidelines() *domain.GuidelineConfig {
	return &m.config.Guidelines
}

// GetFacility returns the treating facility configuration
func (m *Manager) GetFacility() *domain.FacilityConfig {
	return &m.config.Facility
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validate record store configuration
	switch config.Database.Driver {
	case "postgres":
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if config.Database.Username == "" {
			return fmt.Errorf("database username is required")
		}
	case "sqlite":
		if config.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	// Validate guideline constants
	g := config.Guidelines
	if g.ThrombolysisWindowHours <= 0 {
		return fmt.Errorf("thrombolysis window must be positive: %v", g.ThrombolysisWindowHours)
	}
	if g.ThrombectomyWindowHours < g.ThrombolysisWindowHours {
		return fmt.Errorf("thrombectomy window (%v h) must not be shorter than thrombolysis window (%v h)",
			g.ThrombectomyWindowHours, g.ThrombolysisWindowHours)
	}
	if g.NIHSSMinSeverity < 0 {
		return fmt.Errorf("NIHSS minimum severity cannot be negative: %d", g.NIHSSMinSeverity)
	}
	if g.ASPECTSMinFavorable < 0 || g.ASPECTSMinFavorable > domain.ASPECTSMaxScore {
		return fmt.Errorf("ASPECTS favorable threshold out of range: %d", g.ASPECTSMinFavorable)
	}
	if g.TPADoseMgPerKg <= 0 || g.TPAMaxDoseMg <= 0 {
		return fmt.Errorf("tPA dosing constants must be positive")
	}
	if g.ASPECTSModerateThreshold > g.ASPECTSMildThreshold {
		return fmt.Errorf("ASPECTS band boundaries out of order: moderate %d > mild %d",
			g.ASPECTSModerateThreshold, g.ASPECTSMildThreshold)
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// GetDatabaseConnectionString returns a formatted database connection string
func (m *Manager) GetDatabaseConnectionString() string {
	db := m.config.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}

// GetDatabaseURL returns the URL form used by the migration runner
func (m *Manager) GetDatabaseURL() string {
	db := m.config.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.Username, db.Password, db.Host, db.Port, db.Database, db.SSLMode)
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}
