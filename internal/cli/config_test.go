package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadInstantiateConfig_EmptyPath(t *testing.T) {
	msg, err := LoadInstantiateConfig("")
	require.NoError(t, err)

	assert.Empty(t, msg.Owner)
	assert.False(t, msg.FinalityEnabled)
	assert.Zero(t, msg.MaxMessageSize)
}

func TestLoadInstantiateConfig_Full(t *testing.T) {
	path := writeConfigFile(t, `
owner:             "alice"
finality_enabled:  true
finality_provider: "babylon"
max_message_size:  512
`)

	msg, err := LoadInstantiateConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "alice", msg.Owner)
	assert.True(t, msg.FinalityEnabled)
	assert.Equal(t, "babylon", msg.FinalityProvider)
	assert.Equal(t, uint64(512), msg.MaxMessageSize)
}

func TestLoadInstantiateConfig_PartialDefaults(t *testing.T) {
	path := writeConfigFile(t, `owner: "alice"`)

	msg, err := LoadInstantiateConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "alice", msg.Owner)
	assert.Zero(t, msg.MaxMessageSize)
}

func TestLoadInstantiateConfig_NotFound(t *testing.T) {
	_, err := LoadInstantiateConfig(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrCodeConfigNotFound, cfgErr.Code)
}

func TestLoadInstantiateConfig_ParseError(t *testing.T) {
	path := writeConfigFile(t, `owner: "unterminated`)

	_, err := LoadInstantiateConfig(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrCodeConfigParse, cfgErr.Code)
}

func TestLoadInstantiateConfig_FinalityWithoutProvider(t *testing.T) {
	path := writeConfigFile(t, `
owner:            "alice"
finality_enabled: true
`)

	_, err := LoadInstantiateConfig(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrCodeConfigInvalid, cfgErr.Code)
}
