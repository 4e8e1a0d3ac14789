package configpaths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCandidatePaths(t *testing.T) {
	jsonPaths, yamlPaths, tomlPaths := ConfigCandidatePaths("custom.yml")
	require.NotEmpty(t, yamlPaths)
	assert.Equal(t, "custom.yml", yamlPaths[0], "user path comes first")

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Contains(t, jsonPaths, filepath.Join(wd, "annogen.json"))
	assert.Contains(t, tomlPaths, filepath.Join(wd, "config.toml"))
	if runtime.GOOS != "windows" {
		assert.Contains(t, yamlPaths, "/etc/annogen/config.yaml")
	}
}

func TestConfigCandidatePathsUnknownExtension(t *testing.T) {
	jsonPaths, _, _ := ConfigCandidatePaths("annogen.conf")
	assert.Equal(t, "annogen.conf", jsonPaths[0])
}

func TestDefaultNamedConfigPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG layout only")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultNamedConfigPath("generate", "yml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/annogen/generate.yaml", p)
}
