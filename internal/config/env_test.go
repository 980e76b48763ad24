package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("PVL_TAWK_PROPERTY_ID=prop-1\nPVL_CLARITY_PROJECT_ID=\"clar-9\"\n"), 0o600))
	t.Setenv(EnvTawkPropertyID, "")
	t.Setenv(EnvClarityProjectID, "preset")
	require.NoError(t, os.Unsetenv(EnvTawkPropertyID))

	require.NoError(t, LoadEnvFiles(root))

	ids := IntegrationIDsFromEnv()
	assert.Equal(t, "prop-1", ids.TawkPropertyID)
	assert.Equal(t, "preset", ids.ClarityProjectID, "existing variables win")
}

func TestLoadEnvFilesMissing(t *testing.T) {
	require.NoError(t, LoadEnvFiles(t.TempDir()))
}
