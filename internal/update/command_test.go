package update_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/configstore"
	"github.com/temirov/repoup/internal/gitrepo"
	"github.com/temirov/repoup/internal/update"
)

type staticSettingsAccessor struct {
	settings configstore.Settings
}

func (accessor staticSettingsAccessor) Load() configstore.Settings {
	return accessor.settings
}

func executeSyncCommand(testInstance *testing.T, builder *update.SyncCommandBuilder, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestSyncCommandUpdatesConfiguredRepositories(t *testing.T) {
	rootDirectory := t.TempDir()
	createRepositoryDirectory(t, rootDirectory, exampleRepositoryNameConstant, true)

	gateway := &stubRepositoryGateway{
		currentBranchValue: mainBranchNameConstant,
		localBranches:      []string{mainBranchNameConstant},
		pullOutcome:        gitrepo.CommandOutcome{Ok: true},
	}
	builder := &update.SyncCommandBuilder{
		LoggerProvider: zap.NewNop,
		Gateway:        gateway,
		SettingsAccessor: staticSettingsAccessor{settings: configstore.Settings{
			Repositories: []string{exampleRepositoryNameConstant},
			Branches:     []string{masterBranchNameConstant, mainBranchNameConstant},
		}},
	}

	commandOutput, executionError := executeSyncCommand(t, builder, "--root", rootDirectory)

	require.NoError(t, executionError)
	require.Contains(t, commandOutput, "UPDATED: "+exampleRepositoryNameConstant+" ("+mainBranchNameConstant+")")
	require.Contains(t, commandOutput, "Updated 1 of 1 repositories")
	require.Equal(t, []string{mainBranchNameConstant}, gateway.pullBranches)
}

func TestSyncCommandReportsFailuresWithoutReturningError(t *testing.T) {
	rootDirectory := t.TempDir()
	createRepositoryDirectory(t, rootDirectory, exampleRepositoryNameConstant, true)

	gateway := &stubRepositoryGateway{
		currentBranchValue: mainBranchNameConstant,
		localBranches:      []string{mainBranchNameConstant},
		pullOutcome:        gitrepo.CommandOutcome{Ok: false, Output: "could not resolve host"},
	}
	builder := &update.SyncCommandBuilder{
		LoggerProvider: zap.NewNop,
		Gateway:        gateway,
		SettingsAccessor: staticSettingsAccessor{settings: configstore.Settings{
			Repositories: []string{exampleRepositoryNameConstant},
			Branches:     []string{mainBranchNameConstant},
		}},
	}

	commandOutput, executionError := executeSyncCommand(t, builder, "--root", rootDirectory)

	require.NoError(t, executionError)
	require.Contains(t, commandOutput, "FAILED: "+exampleRepositoryNameConstant)
	require.Contains(t, commandOutput, "could not resolve host")
	require.Contains(t, commandOutput, "Updated 0 of 1 repositories")
}

func TestSyncCommandRequiresRootDirectory(t *testing.T) {
	builder := &update.SyncCommandBuilder{
		LoggerProvider:   zap.NewNop,
		Gateway:          &stubRepositoryGateway{},
		SettingsAccessor: staticSettingsAccessor{settings: configstore.Settings{Branches: []string{mainBranchNameConstant}}},
	}

	_, executionError := executeSyncCommand(t, builder)

	require.Error(t, executionError)
	require.Contains(t, executionError.Error(), "no root directory configured")
}

func TestSyncCommandBranchFlagNarrowsAllowList(t *testing.T) {
	rootDirectory := t.TempDir()
	createRepositoryDirectory(t, rootDirectory, exampleRepositoryNameConstant, true)

	gateway := &stubRepositoryGateway{
		currentBranchValue: mainBranchNameConstant,
		localBranches:      []string{mainBranchNameConstant, developBranchNameConstant},
		checkoutOutcome:    gitrepo.CommandOutcome{Ok: true},
		pullOutcome:        gitrepo.CommandOutcome{Ok: true},
	}
	builder := &update.SyncCommandBuilder{
		LoggerProvider: zap.NewNop,
		Gateway:        gateway,
		SettingsAccessor: staticSettingsAccessor{settings: configstore.Settings{
			Repositories: []string{exampleRepositoryNameConstant},
			Branches:     []string{masterBranchNameConstant, mainBranchNameConstant},
		}},
	}

	commandOutput, executionError := executeSyncCommand(t, builder, "--root", rootDirectory, "--branch", developBranchNameConstant)

	require.NoError(t, executionError)
	require.Equal(t, []string{developBranchNameConstant}, gateway.checkoutBranches)
	require.Equal(t, []string{developBranchNameConstant}, gateway.pullBranches)
	require.Contains(t, commandOutput, "UPDATED: "+exampleRepositoryNameConstant+" ("+developBranchNameConstant+")")
}
