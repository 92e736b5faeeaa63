package configstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/discovery"
	pathutils "github.com/temirov/repoup/internal/utils/path"
)

const (
	configCommandUseConstant              = "config"
	configCommandShortDescriptionConstant = "Inspect and edit the persisted settings"
	settingsFlagNameConstant              = "settings"
	settingsFlagDescriptionConstant       = "Path to the persisted settings file"

	showCommandUseConstant           = "show"
	showCommandDescriptionConstant   = "Print the current settings"
	rootCommandUseConstant           = "root"
	rootCommandDescriptionConstant   = "Manage the root directory"
	rootSetCommandUseConstant        = "set <path>"
	rootSetDescriptionConstant       = "Set the root directory containing the repositories"
	createFlagNameConstant           = "create"
	createFlagDescriptionConstant    = "Create the directory when it does not exist"
	repoCommandUseConstant           = "repo"
	repoCommandDescriptionConstant   = "Manage the repository list"
	repoAddCommandUseConstant        = "add <name>"
	repoAddDescriptionConstant       = "Append a repository to the update list"
	repoRemoveCommandUseConstant     = "remove <position>"
	repoRemoveDescriptionConstant    = "Remove the repository at the given position (starting at 1)"
	repoDiscoverCommandUseConstant   = "discover"
	repoDiscoverDescriptionConstant  = "Scan the root directory and add every git repository found"
	branchCommandUseConstant         = "branch"
	branchCommandDescriptionConstant = "Manage the branch allow list"
	branchAddCommandUseConstant      = "add <name>"
	branchAddDescriptionConstant     = "Append a branch to the allow list"
	branchRemoveCommandUseConstant   = "remove <position>"
	branchRemoveDescriptionConstant  = "Remove the branch at the given position (starting at 1)"

	invalidPositionTemplateConstant      = "position must be a number, got %q"
	rootDirectoryLineTemplateConstant    = "Root directory: %s\n"
	rootDirectoryUnsetLineConstant       = "Root directory: (not set)\n"
	branchesHeaderLineConstant           = "Branches:\n"
	repositoriesHeaderLineConstant       = "Repositories:\n"
	listEntryTemplateConstant            = "  %d. %s\n"
	emptyListEntryLineConstant           = "  (none)\n"
	settingsPathLineTemplateConstant     = "Settings file: %s\n"
	repositoryAddedTemplateConstant      = "Added repository %s\n"
	repositoryRemovedTemplateConstant    = "Removed repository %s\n"
	branchAddedTemplateConstant          = "Added branch %s\n"
	branchRemovedTemplateConstant        = "Removed branch %s\n"
	rootDirectorySetTemplateConstant     = "Root directory set to %s\n"
	repositoryDiscoveredTemplateConstant = "Discovered repository %s\n"
	discoveryCompletedTemplateConstant   = "Added %d of %d discovered repositories\n"
	discoveryRequiresRootMessageConstant = "no root directory configured; set one with 'repoup config root set'"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the config command group.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	Store          *Store
}

// Build constructs the config command and its subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configCommand := &cobra.Command{
		Use:   configCommandUseConstant,
		Short: configCommandShortDescriptionConstant,
	}
	configCommand.PersistentFlags().String(settingsFlagNameConstant, "", settingsFlagDescriptionConstant)

	configCommand.AddCommand(builder.buildShowCommand())
	configCommand.AddCommand(builder.buildRootCommand())
	configCommand.AddCommand(builder.buildRepositoryCommand())
	configCommand.AddCommand(builder.buildBranchCommand())

	return configCommand, nil
}

func (builder *CommandBuilder) buildShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   showCommandUseConstant,
		Short: showCommandDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			store, storeError := builder.resolveStore(command)
			if storeError != nil {
				return storeError
			}
			settings := store.Load()

			outputWriter := command.OutOrStdout()
			fmt.Fprintf(outputWriter, settingsPathLineTemplateConstant, store.SettingsPath())
			if len(settings.RootDirectory) > 0 {
				fmt.Fprintf(outputWriter, rootDirectoryLineTemplateConstant, settings.RootDirectory)
			} else {
				fmt.Fprint(outputWriter, rootDirectoryUnsetLineConstant)
			}
			fmt.Fprint(outputWriter, branchesHeaderLineConstant)
			writeNumberedList(command, settings.Branches)
			fmt.Fprint(outputWriter, repositoriesHeaderLineConstant)
			writeNumberedList(command, settings.Repositories)
			return nil
		},
	}
}

func (builder *CommandBuilder) buildRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   rootCommandUseConstant,
		Short: rootCommandDescriptionConstant,
	}

	setCommand := &cobra.Command{
		Use:   rootSetCommandUseConstant,
		Short: rootSetDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := builder.resolveStore(command)
			if storeError != nil {
				return storeError
			}
			store.Load()

			createMissing, createFlagError := command.Flags().GetBool(createFlagNameConstant)
			if createFlagError != nil {
				return createFlagError
			}

			rootDirectory := pathutils.NewHomeExpander().Expand(strings.TrimSpace(arguments[0]))
			if setError := store.SetRootDirectory(rootDirectory, createMissing); setError != nil {
				return setError
			}
			fmt.Fprintf(command.OutOrStdout(), rootDirectorySetTemplateConstant, rootDirectory)
			return nil
		},
	}
	setCommand.Flags().Bool(createFlagNameConstant, false, createFlagDescriptionConstant)

	rootCommand.AddCommand(setCommand)
	return rootCommand
}

func (builder *CommandBuilder) buildRepositoryCommand() *cobra.Command {
	repositoryCommand := &cobra.Command{
		Use:   repoCommandUseConstant,
		Short: repoCommandDescriptionConstant,
	}

	addCommand := &cobra.Command{
		Use:   repoAddCommandUseConstant,
		Short: repoAddDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := builder.resolveStore(command)
			if storeError != nil {
				return storeError
			}
			store.Load()

			repositoryName := strings.TrimSpace(arguments[0])
			if addError := store.AddRepository(repositoryName); addError != nil {
				return addError
			}
			fmt.Fprintf(command.OutOrStdout(), repositoryAddedTemplateConstant, repositoryName)
			return nil
		},
	}

	removeCommand := &cobra.Command{
		Use:   repoRemoveCommandUseConstant,
		Short: repoRemoveDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := builder.resolveStore(command)
			if storeError != nil {
				return storeError
			}
			store.Load()

			position, positionError := parseListPosition(arguments[0])
			if positionError != nil {
				return positionError
			}
			removedName, removeError := store.RemoveRepository(position)
			if removeError != nil {
				return removeError
			}
			fmt.Fprintf(command.OutOrStdout(), repositoryRemovedTemplateConstant, removedName)
			return nil
		},
	}

	repositoryCommand.AddCommand(addCommand)
	repositoryCommand.AddCommand(removeCommand)
	repositoryCommand.AddCommand(builder.buildRepositoryDiscoverCommand())
	return repositoryCommand
}

func (builder *CommandBuilder) buildRepositoryDiscoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   repoDiscoverCommandUseConstant,
		Short: repoDiscoverDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			store, storeError := builder.resolveStore(command)
			if storeError != nil {
				return storeError
			}
			settings := store.Load()

			rootDirectory := strings.TrimSpace(settings.RootDirectory)
			if len(rootDirectory) == 0 {
				return errors.New(discoveryRequiresRootMessageConstant)
			}

			discoveredNames, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories(rootDirectory)
			if discoveryError != nil {
				return discoveryError
			}

			addedCount := 0
			for _, repositoryName := range discoveredNames {
				addError := store.AddRepository(repositoryName)
				if errors.Is(addError, ErrRepositoryAlreadyConfigured) {
					continue
				}
				if addError != nil {
					return addError
				}
				addedCount++
				fmt.Fprintf(command.OutOrStdout(), repositoryDiscoveredTemplateConstant, repositoryName)
			}
			fmt.Fprintf(command.OutOrStdout(), discoveryCompletedTemplateConstant, addedCount, len(discoveredNames))
			return nil
		},
	}
}

func (builder *CommandBuilder) buildBranchCommand() *cobra.Command {
	branchCommand := &cobra.Command{
		Use:   branchCommandUseConstant,
		Short: branchCommandDescriptionConstant,
	}

	addCommand := &cobra.Command{
		Use:   branchAddCommandUseConstant,
		Short: branchAddDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := builder.resolveStore(command)
			if storeError != nil {
				return storeError
			}
			store.Load()

			branchName := strings.TrimSpace(arguments[0])
			if addError := store.AddBranch(branchName); addError != nil {
				return addError
			}
			fmt.Fprintf(command.OutOrStdout(), branchAddedTemplateConstant, branchName)
			return nil
		},
	}

	removeCommand := &cobra.Command{
		Use:   branchRemoveCommandUseConstant,
		Short: branchRemoveDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := builder.resolveStore(command)
			if storeError != nil {
				return storeError
			}
			store.Load()

			position, positionError := parseListPosition(arguments[0])
			if positionError != nil {
				return positionError
			}
			removedName, removeError := store.RemoveBranch(position)
			if removeError != nil {
				return removeError
			}
			fmt.Fprintf(command.OutOrStdout(), branchRemovedTemplateConstant, removedName)
			return nil
		},
	}

	branchCommand.AddCommand(addCommand)
	branchCommand.AddCommand(removeCommand)
	return branchCommand
}

func (builder *CommandBuilder) resolveStore(command *cobra.Command) (*Store, error) {
	if builder.Store != nil {
		return builder.Store, nil
	}

	settingsPath, settingsFlagError := command.Flags().GetString(settingsFlagNameConstant)
	if settingsFlagError != nil {
		return nil, settingsFlagError
	}
	settingsPath = pathutils.NewHomeExpander().Expand(strings.TrimSpace(settingsPath))
	if len(settingsPath) == 0 {
		defaultPath, defaultPathError := DefaultSettingsPath()
		if defaultPathError != nil {
			return nil, defaultPathError
		}
		settingsPath = defaultPath
	}

	return NewStore(settingsPath, builder.resolveLogger())
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

// parseListPosition converts a user-facing 1-based position into the store's
// 0-based index.
func parseListPosition(rawPosition string) (int, error) {
	position, parseError := strconv.Atoi(strings.TrimSpace(rawPosition))
	if parseError != nil {
		return 0, fmt.Errorf(invalidPositionTemplateConstant, rawPosition)
	}
	return position - 1, nil
}

func writeNumberedList(command *cobra.Command, listEntries []string) {
	outputWriter := command.OutOrStdout()
	if len(listEntries) == 0 {
		fmt.Fprint(outputWriter, emptyListEntryLineConstant)
		return
	}
	for entryIndex, entryValue := range listEntries {
		fmt.Fprintf(outputWriter, listEntryTemplateConstant, entryIndex+1, entryValue)
	}
}
