package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/configstore"
	"github.com/temirov/repoup/internal/update"
	pathutils "github.com/temirov/repoup/internal/utils/path"
)

const (
	commandUseConstant              = "menu"
	commandShortDescriptionConstant = "Open the interactive menu"
	commandLongDescriptionConstant  = "menu starts a terminal session for editing the repository list, the branch allow list, and the root directory, and for launching batch updates."
	settingsFlagNameConstant        = "settings"
	settingsFlagDescriptionConstant = "Path to the persisted settings file"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ProgramRunner executes a bubbletea model until it terminates.
type ProgramRunner func(model tea.Model) (tea.Model, error)

// CommandBuilder assembles the menu command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Store                        *configstore.Store
	Executor                     BatchExecutor
	ProgramRunner                ProgramRunner
	HumanReadableLoggingProvider func() bool
}

// Build constructs the menu command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(settingsFlagNameConstant, "", settingsFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	logger := builder.resolveLogger()

	store, storeError := builder.resolveStore(command, logger)
	if storeError != nil {
		return storeError
	}

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	sessionModel, modelError := NewModel(ModelDependencies{Store: store, Executor: executor, Logger: logger})
	if modelError != nil {
		return modelError
	}

	programRunner := builder.ProgramRunner
	if programRunner == nil {
		programRunner = runTerminalProgram
	}

	_, programError := programRunner(sessionModel)
	return programError
}

func runTerminalProgram(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model, tea.WithAltScreen()).Run()
}

func (builder *CommandBuilder) resolveStore(command *cobra.Command, logger *zap.Logger) (*configstore.Store, error) {
	if builder.Store != nil {
		return builder.Store, nil
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

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (BatchExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := update.ResolveGitExecutor(nil, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}

	gateway, gatewayError := update.ResolveRepositoryGateway(nil, gitExecutor)
	if gatewayError != nil {
		return nil, gatewayError
	}

	engine, engineError := update.NewEngine(update.EngineDependencies{Gateway: gateway, Logger: logger})
	if engineError != nil {
		return nil, engineError
	}

	return update.NewBatchRunner(update.BatchRunnerDependencies{Processor: engine, Logger: logger})
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
