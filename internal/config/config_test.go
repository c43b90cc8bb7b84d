package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
api:
  environment: dev
  port: "9000"
  jwt_signing_key: 0123456789abcdef0123
gin:
  mode: release
postgres:
  host: db
  port: "5432"
  user: u
  db_name: synapse
s3:
  bucket: thumbs
google:
  client_id: abc.apps.googleusercontent.com
log:
  level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "dev", conf.API.Environment)
	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, 50*1024, conf.API.MaxImageBytes)
	assert.Equal(t, "release", conf.Gin.Mode)
	assert.Equal(t, "thumbs", conf.S3.Bucket)
	assert.Equal(t, "us-east-1", conf.S3.Region)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.Contains(t, conf.Postgres.DSN(), "dbname=synapse")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SYNAPSE_API_PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/synapse")

	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "7000", conf.API.Port)
	assert.Equal(t, "postgres://u:p@localhost:5432/synapse", conf.Postgres.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, `
api:
  environment: staging
  jwt_signing_key: short
`))
	assert.Error(t, err)
}
