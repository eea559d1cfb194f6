package configs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/videocatalog/pkg/configs"
)

func TestDefaults(t *testing.T) {
	cfg := configs.Defaults()

	assert.Equal(t, 15, cfg.Server.PerPage)
	assert.Equal(t, 100, cfg.Server.MaxPerPage)
	assert.Equal(t, configs.SQLite, cfg.DB.Type)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.Trash.RetentionDays)
	assert.Equal(t, 60*time.Second, cfg.CircuitBreaker.Interval())
}

func TestExemptPaths(t *testing.T) {
	cfg := configs.Defaults().RateLimit

	assert.True(t, cfg.Exempt("/health"))
	assert.True(t, cfg.Exempt("/health/db"))
	assert.True(t, cfg.Exempt("/swagger/index.html"))
	assert.False(t, cfg.Exempt("/healthz"))
	assert.False(t, cfg.Exempt("/api/v1/videos"))

	assert.False(t, configs.CircuitBreakerConfig{}.Exempt("/health"))
}

func TestInitConfigFromDirectory(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: 9090\n  per_page: 25\ntrash:\n  retention_days: 7\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	require.NoError(t, configs.InitConfig(dir))

	cfg := configs.GetConfig()
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Server.PerPage)
	assert.Equal(t, 100, cfg.Server.MaxPerPage, "unset keys keep defaults")
	assert.Equal(t, 7, cfg.Trash.RetentionDays)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), configs.GetViper().ConfigFileUsed())
}

func TestInitConfigWithoutFile(t *testing.T) {
	require.NoError(t, configs.InitConfig(t.TempDir()))
	assert.Equal(t, 15, configs.GetConfig().Server.PerPage)
}

func TestDBDialectAndDSN(t *testing.T) {
	pg := configs.DBConfig{Type: configs.Pg, Host: "db", User: "u", Password: "p", Database: "vc", SSLMode: "disable"}
	assert.Equal(t, configs.Postgres, pg.Dialect())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=vc sslmode=disable TimeZone=UTC", pg.GetDSN())

	my := configs.DBConfig{Type: configs.MariaDB, Host: "db", Port: 3307, User: "u", Password: "p", Database: "vc"}
	assert.Equal(t, configs.MySQL, my.Dialect())
	assert.Equal(t, "u:p@tcp(db:3307)/vc?charset=utf8mb4&parseTime=true&loc=UTC", my.GetDSN())

	lite := configs.DBConfig{Type: configs.SQLite, Database: "catalog", DSN: "file::memory:"}
	assert.Equal(t, "file::memory:", lite.GetDSN())

	assert.Empty(t, (&configs.DBConfig{Type: "oracle"}).GetDSN())
}
