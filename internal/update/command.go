package update

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/configstore"
	"github.com/temirov/repoup/internal/gitrepo"
	"github.com/temirov/repoup/internal/utils"
	pathutils "github.com/temirov/repoup/internal/utils/path"
)

const (
	commandUseConstant                  = "sync"
	commandShortDescriptionConstant     = "Fast-forward every configured repository"
	commandLongDescriptionConstant      = "sync walks the configured repository list under the root directory, checks out the first available branch from the allow list, and pulls it fast-forward only."
	rootFlagNameConstant                = "root"
	rootFlagDescriptionConstant         = "Root directory containing the repositories"
	branchFlagNameConstant              = "branch"
	branchFlagDescriptionConstant       = "Update only this branch instead of the configured allow list"
	settingsFlagNameConstant            = "settings"
	settingsFlagDescriptionConstant     = "Path to the persisted settings file"
	missingRootDirectoryMessageConstant = "no root directory configured; supply --root or set one with 'repoup config root set'"
	successLineTemplateConstant         = "UPDATED: %s (%s)\n"
	failureLineTemplateConstant         = "FAILED: %s [%s] %s\n"
	summaryTrailerTemplateConstant      = "Updated %d of %d repositories in %s (%d failed)\n"
	summaryDurationPrecisionConstant    = "%.1fs"
)

// SettingsAccessor loads persisted user settings for the sync command.
type SettingsAccessor interface {
	Load() configstore.Settings
}

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// SyncCommandBuilder assembles the sync command.
type SyncCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	Gateway                      RepositoryGateway
	SettingsAccessor             SettingsAccessor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the sync command.
func (builder *SyncCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(rootFlagNameConstant, "", rootFlagDescriptionConstant)
	command.Flags().String(branchFlagNameConstant, "", branchFlagDescriptionConstant)
	command.Flags().String(settingsFlagNameConstant, "", settingsFlagDescriptionConstant)

	return command, nil
}

func (builder *SyncCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()

	settingsAccessor, accessorError := builder.resolveSettingsAccessor(command, logger)
	if accessorError != nil {
		return accessorError
	}
	settings := settingsAccessor.Load()

	rootDirectory, rootError := builder.resolveRootDirectory(command, configuration, settings)
	if rootError != nil {
		return rootError
	}

	branchAllowList, allowListError := builder.resolveBranchAllowList(command, configuration, settings)
	if allowListError != nil {
		return allowListError
	}

	runner, runnerError := builder.buildRunner(logger)
	if runnerError != nil {
		return runnerError
	}

	summary, runError := runner.Run(command.Context(), rootDirectory, settings.Repositories, branchAllowList)
	if runError != nil {
		return runError
	}

	renderSummary(utils.NewFlushingWriter(command.OutOrStdout()), summary)
	return nil
}

func (builder *SyncCommandBuilder) buildRunner(logger *zap.Logger) (*BatchRunner, error) {
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}

	gateway, gatewayError := ResolveRepositoryGateway(builder.Gateway, gitExecutor)
	if gatewayError != nil {
		return nil, gatewayError
	}

	engine, engineError := NewEngine(EngineDependencies{Gateway: gateway, Logger: logger})
	if engineError != nil {
		return nil, engineError
	}

	return NewBatchRunner(BatchRunnerDependencies{Processor: engine, Logger: logger})
}

func (builder *SyncCommandBuilder) resolveSettingsAccessor(command *cobra.Command, logger *zap.Logger) (SettingsAccessor, error) {
	if builder.SettingsAccessor != nil {
		return builder.SettingsAccessor, nil
	}

	settingsPath, settingsFlagError := command.Flags().GetString(settingsFlagNameConstant)
	if settingsFlagError != nil {
		return nil, settingsFlagError
	}
	settingsPath = pathutils.NewHomeExpander().Expand(strings.TrimSpace(settingsPath))
	if len(settingsPath) == 0 {
		defaultPath, defaultPathError := configstore.DefaultSettingsPath()
		if defaultPathError != nil {
			return nil, defaultPathError
		}
		settingsPath = defaultPath
	}

	return configstore.NewStore(settingsPath, logger)
}

func (builder *SyncCommandBuilder) resolveRootDirectory(command *cobra.Command, configuration CommandConfiguration, settings configstore.Settings) (string, error) {
	rootFlagValue, rootFlagError := command.Flags().GetString(rootFlagNameConstant)
	if rootFlagError != nil {
		return "", rootFlagError
	}

	homeExpander := pathutils.NewHomeExpander()
	candidateRoots := []string{rootFlagValue, configuration.RootDirectory, settings.RootDirectory}
	for _, candidateRoot := range candidateRoots {
		trimmedRoot := strings.TrimSpace(candidateRoot)
		if len(trimmedRoot) > 0 {
			return homeExpander.Expand(trimmedRoot), nil
		}
	}
	return "", errors.New(missingRootDirectoryMessageConstant)
}

func (builder *SyncCommandBuilder) resolveBranchAllowList(command *cobra.Command, configuration CommandConfiguration, settings configstore.Settings) ([]string, error) {
	branchFlagValue, branchFlagError := command.Flags().GetString(branchFlagNameConstant)
	if branchFlagError != nil {
		return nil, branchFlagError
	}
	if trimmedBranch := strings.TrimSpace(branchFlagValue); len(trimmedBranch) > 0 {
		return []string{trimmedBranch}, nil
	}

	if len(configuration.BranchNames) > 0 {
		return configuration.BranchNames, nil
	}
	return settings.Branches, nil
}

func (builder *SyncCommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *SyncCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func renderSummary(outputWriter io.Writer, summary RunSummary) {
	for _, repositoryOutcome := range summary.Outcomes {
		if repositoryOutcome.Succeeded() {
			fmt.Fprintf(outputWriter, successLineTemplateConstant, repositoryOutcome.RepositoryName, repositoryOutcome.BranchName)
			continue
		}
		fmt.Fprintf(outputWriter, failureLineTemplateConstant, repositoryOutcome.RepositoryName, repositoryOutcome.Kind, repositoryOutcome.Details)
	}

	formattedDuration := fmt.Sprintf(summaryDurationPrecisionConstant, summary.Duration().Seconds())
	fmt.Fprintf(outputWriter, summaryTrailerTemplateConstant, summary.SuccessCount, summary.TotalCount, formattedDuration, summary.FailureCount())
}
