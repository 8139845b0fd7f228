package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Logging    LoggingConfig   `mapstructure:"logging"`
	Guidelines GuidelineConfig `mapstructure:"guidelines"`
	Facility   FacilityConfig  `mapstructure:"facility"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig represents record store configuration. Driver selects the
// backing store: "postgres" for the pgx pool, "sqlite" for the embedded store.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GuidelineConfig holds every clinical threshold the engines consult. All
// values are externally adjustable; the engines treat the struct as immutable
// once injected. Defaults mirror the simplified demonstration guidelines.
type GuidelineConfig struct {
	// Treatment windows, measured from last known well. Upper bounds are
	// inclusive: delta-t equal to the window is still inside it.
	ThrombolysisWindowHours float64 `mapstructure:"thrombolysis_window_hours"`
	ThrombectomyWindowHours float64 `mapstructure:"thrombectomy_window_hours"`

	// Minimum NIHSS for thrombolysis and minimum ASPECTS considered
	// favorable imaging for thrombectomy.
	NIHSSMinSeverity    int `mapstructure:"nihss_min_severity"`
	ASPECTSMinFavorable int `mapstructure:"aspects_min_favorable"`

	// tPA dosing.
	TPADoseMgPerKg float64 `mapstructure:"tpa_dose_mg_per_kg"`
	TPAMaxDoseMg   float64 `mapstructure:"tpa_max_dose_mg"`

	// Blood-pressure bands (mmHg upper bounds). The tight band applies when
	// the patient is treatment-eligible, the permissive band otherwise.
	TPAMaxSystolicBP      int `mapstructure:"tpa_max_systolic_bp"`
	TPAMaxDiastolicBP     int `mapstructure:"tpa_max_diastolic_bp"`
	PermissiveSystolicBP  int `mapstructure:"permissive_systolic_bp"`
	PermissiveDiastolicBP int `mapstructure:"permissive_diastolic_bp"`

	// ASPECTS interpretation band boundaries: score of ASPECTSMaxScore is
	// normal, >= MildThreshold mild, >= ModerateThreshold moderate, below
	// that severe.
	ASPECTSMildThreshold     int `mapstructure:"aspects_mild_threshold"`
	ASPECTSModerateThreshold int `mapstructure:"aspects_moderate_threshold"`

	// Door-to-intervention targets in minutes from arrival.
	DoorToCTMinutes       int `mapstructure:"door_to_ct_minutes"`
	DoorToNeedleMinutes   int `mapstructure:"door_to_needle_minutes"`
	DoorToPunctureMinutes int `mapstructure:"door_to_puncture_minutes"`
}

// FacilityConfig describes the treating facility's capabilities, consulted by
// the transfer rule.
type FacilityConfig struct {
	Name                string `mapstructure:"name"`
	ThrombectomyCapable bool   `mapstructure:"thrombectomy_capable"`
}
