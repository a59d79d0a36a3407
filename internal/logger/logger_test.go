package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNamed(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		l, err := NewNamed(env, "service-booking")
		require.NoError(t, err, env)
		assert.NotNil(t, l)
		l.Info("logger ready")
	}
}

func TestNewFile_WritesToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barbearia.log")

	l, err := NewFile(path, "barbearia", true)
	require.NoError(t, err)
	l.Debug("debug line")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug line")
	assert.Contains(t, string(data), `"logger":"barbearia"`)
}
