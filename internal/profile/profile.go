package profile

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where chatodo stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// DailyReportTime is the wall-clock time ("HH:MM") for the daily report push
	DailyReportTime string
	// ReminderAdvanceMinutes is how far ahead of a deadline the reminder fires
	ReminderAdvanceMinutes int
	// OverdueCheckIntervalHours is the interval between overdue sweeps
	OverdueCheckIntervalHours int
	// EnableDailyReport toggles the daily report loop
	EnableDailyReport bool
	// EnableDeadlineReminder toggles the deadline reminder and overdue loops
	EnableDeadlineReminder bool
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from CHATODO_* environment variables. Values
// already set on the profile win over the environment.
func (p *Profile) FromEnv() {
	if p.Mode == "" {
		p.Mode = getEnvOrDefault("CHATODO_MODE", "dev")
	}
	if p.Addr == "" {
		p.Addr = os.Getenv("CHATODO_ADDR")
	}
	if p.Port == 0 {
		if port, err := strconv.Atoi(getEnvOrDefault("CHATODO_PORT", "8233")); err == nil {
			p.Port = port
		}
	}
	if p.Data == "" {
		p.Data = os.Getenv("CHATODO_DATA")
	}
	if p.Driver == "" {
		p.Driver = getEnvOrDefault("CHATODO_DRIVER", "sqlite")
	}
	if p.DSN == "" {
		p.DSN = os.Getenv("CHATODO_DSN")
	}
	if p.DailyReportTime == "" {
		p.DailyReportTime = getEnvOrDefault("CHATODO_DAILY_REPORT_TIME", "08:00")
	}
	if p.ReminderAdvanceMinutes == 0 {
		if n, err := strconv.Atoi(getEnvOrDefault("CHATODO_REMINDER_ADVANCE_MINUTES", "30")); err == nil {
			p.ReminderAdvanceMinutes = n
		}
	}
	if p.OverdueCheckIntervalHours == 0 {
		if n, err := strconv.Atoi(getEnvOrDefault("CHATODO_OVERDUE_CHECK_INTERVAL_HOURS", "2")); err == nil {
			p.OverdueCheckIntervalHours = n
		}
	}
}

// Validate normalizes the profile and fills driver-dependent defaults.
func (p *Profile) Validate() error {
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		p.DSN = filepath.Join(p.Data, "chatodo_"+p.Mode+".db")
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a DSN")
	}
	return nil
}

func checkDataDir(dataDir string) (string, error) {
	if dataDir == "" {
		dataDir = "."
	}
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", errors.Wrapf(err, "failed to resolve data dir %q", dataDir)
		}
		dataDir = absDir
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create data dir %q", dataDir)
	}
	return dataDir, nil
}
