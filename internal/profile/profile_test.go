package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "dev", p.Mode)
	assert.Equal(t, 8233, p.Port)
	assert.Equal(t, "sqlite", p.Driver)
	assert.Equal(t, "08:00", p.DailyReportTime)
	assert.Equal(t, 30, p.ReminderAdvanceMinutes)
	assert.Equal(t, 2, p.OverdueCheckIntervalHours)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CHATODO_MODE", "prod")
	t.Setenv("CHATODO_PORT", "9000")
	t.Setenv("CHATODO_DRIVER", "postgres")
	t.Setenv("CHATODO_DSN", "postgres://localhost/chatodo")
	t.Setenv("CHATODO_DAILY_REPORT_TIME", "07:30")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "prod", p.Mode)
	assert.Equal(t, 9000, p.Port)
	assert.Equal(t, "postgres", p.Driver)
	assert.Equal(t, "postgres://localhost/chatodo", p.DSN)
	assert.Equal(t, "07:30", p.DailyReportTime)
}

func TestFromEnvExplicitValuesWin(t *testing.T) {
	t.Setenv("CHATODO_MODE", "prod")
	t.Setenv("CHATODO_PORT", "9000")

	p := &Profile{Mode: "dev", Port: 1234}
	p.FromEnv()

	assert.Equal(t, "dev", p.Mode)
	assert.Equal(t, 1234, p.Port)
}

func TestValidateSqliteDefaultDSN(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir}
	require.NoError(t, p.Validate())
	assert.Equal(t, filepath.Join(dir, "chatodo_dev.db"), p.DSN)
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "postgres", Data: t.TempDir()}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "oracle", Data: t.TempDir()}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestIsDev(t *testing.T) {
	assert.True(t, (&Profile{Mode: "dev"}).IsDev())
	assert.True(t, (&Profile{Mode: "demo"}).IsDev())
	assert.False(t, (&Profile{Mode: "prod"}).IsDev())
}
