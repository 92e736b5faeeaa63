package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repoup/internal/utils"
)

const (
	testConfigurationNameConstant    = "config"
	testConfigurationTypeConstant    = "yaml"
	testEnvironmentPrefixConstant    = "REPOUPTEST"
	testConfigurationFileConstant    = "config.yaml"
	testEmbeddedDefaultsYAMLConstant = "common:\n  log_level: warn\n  log_format: structured\n"
)

type testCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type testToolConfiguration struct {
	Root     string   `mapstructure:"root"`
	Branches []string `mapstructure:"branches"`
}

type testConfiguration struct {
	Common testCommonConfiguration `mapstructure:"common"`
	Sync   testToolConfiguration   `mapstructure:"sync"`
}

type testConfigurationDocument struct {
	Common map[string]string `yaml:"common"`
	Sync   map[string]any    `yaml:"sync"`
}

func writeConfigurationFixture(testInstance *testing.T, document testConfigurationDocument) string {
	testInstance.Helper()
	encodedDocument, marshalError := yaml.Marshal(document)
	require.NoError(testInstance, marshalError)

	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, encodedDocument, 0o644))
	return configurationPath
}

func newTestLoader() *utils.ConfigurationLoader {
	return utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		nil,
	)
}

func TestLoadConfigurationReadsFileValues(t *testing.T) {
	configurationPath := writeConfigurationFixture(t, testConfigurationDocument{
		Common: map[string]string{"log_level": "debug", "log_format": "console"},
		Sync:   map[string]any{"root": "/srv/repositories", "branches": []string{"main", "master"}},
	})

	var loadedValues testConfiguration
	metadata, loadError := newTestLoader().LoadConfiguration(configurationPath, nil, &loadedValues)

	require.NoError(t, loadError)
	require.Equal(t, configurationPath, metadata.ConfigFileUsed)
	require.Equal(t, "debug", loadedValues.Common.LogLevel)
	require.Equal(t, "console", loadedValues.Common.LogFormat)
	require.Equal(t, "/srv/repositories", loadedValues.Sync.Root)
	require.Equal(t, []string{"main", "master"}, loadedValues.Sync.Branches)
}

func TestLoadConfigurationAppliesDefaultsWhenFileMissing(t *testing.T) {
	defaultValues := map[string]any{
		"common.log_level":  "info",
		"common.log_format": "structured",
	}

	var loadedValues testConfiguration
	_, loadError := newTestLoader().LoadConfiguration("", defaultValues, &loadedValues)

	require.NoError(t, loadError)
	require.Equal(t, "info", loadedValues.Common.LogLevel)
	require.Equal(t, "structured", loadedValues.Common.LogFormat)
}

func TestLoadConfigurationMergesEmbeddedDefaultsBeneathFile(t *testing.T) {
	configurationPath := writeConfigurationFixture(t, testConfigurationDocument{
		Common: map[string]string{"log_level": "error"},
	})

	loader := newTestLoader()
	loader.SetEmbeddedDefaults([]byte(testEmbeddedDefaultsYAMLConstant))

	var loadedValues testConfiguration
	_, loadError := loader.LoadConfiguration(configurationPath, nil, &loadedValues)

	require.NoError(t, loadError)
	require.Equal(t, "error", loadedValues.Common.LogLevel)
	require.Equal(t, "structured", loadedValues.Common.LogFormat)
}

func TestLoadConfigurationHonorsEnvironmentOverrides(t *testing.T) {
	t.Setenv(testEnvironmentPrefixConstant+"_COMMON_LOG_LEVEL", "debug")
	t.Setenv(testEnvironmentPrefixConstant+"_SYNC_BRANCHES", "develop,main")

	defaultValues := map[string]any{
		"common.log_level": "info",
		"sync.branches":    []string{},
	}

	var loadedValues testConfiguration
	_, loadError := newTestLoader().LoadConfiguration("", defaultValues, &loadedValues)

	require.NoError(t, loadError)
	require.Equal(t, "debug", loadedValues.Common.LogLevel)
	require.Equal(t, []string{"develop", "main"}, loadedValues.Sync.Branches)
}

func TestLoadConfigurationRejectsMalformedFile(t *testing.T) {
	configurationPath := filepath.Join(t.TempDir(), testConfigurationFileConstant)
	require.NoError(t, os.WriteFile(configurationPath, []byte("common: [unbalanced"), 0o644))

	var loadedValues testConfiguration
	_, loadError := newTestLoader().LoadConfiguration(configurationPath, nil, &loadedValues)

	require.Error(t, loadError)
	require.Contains(t, loadError.Error(), "failed to read configuration")
}
