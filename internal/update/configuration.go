package update

import "strings"

const (
	rootConfigurationKeySuffixConstant     = ".root"
	branchesConfigurationKeySuffixConstant = ".branches"
)

// CommandConfiguration captures configuration values for the sync command.
type CommandConfiguration struct {
	RootDirectory string   `mapstructure:"root"`
	BranchNames   []string `mapstructure:"branches"`
}

// DefaultCommandConfiguration provides baseline configuration values for the sync command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RootDirectory: "",
		BranchNames:   nil,
	}
}

// DefaultConfigurationValues exposes sync defaults keyed for configuration loading.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + rootConfigurationKeySuffixConstant:     defaults.RootDirectory,
		configurationKeyPrefix + branchesConfigurationKeySuffixConstant: defaults.BranchNames,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RootDirectory = strings.TrimSpace(configuration.RootDirectory)
	sanitized.BranchNames = sanitizeBranchNames(configuration.BranchNames)
	return sanitized
}

func sanitizeBranchNames(rawBranchNames []string) []string {
	sanitized := make([]string, 0, len(rawBranchNames))
	for _, candidateBranchName := range rawBranchNames {
		trimmedBranchName := strings.TrimSpace(candidateBranchName)
		if len(trimmedBranchName) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmedBranchName)
	}
	return sanitized
}
