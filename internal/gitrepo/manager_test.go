package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoup/internal/execshell"
	"github.com/temirov/repoup/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/workspace/project"
	testBranchNameConstant     = "main"
)

type scriptedGitExecutor struct {
	results          []execshell.ExecutionResult
	executionErrors  []error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)

	var executionResult execshell.ExecutionResult
	if len(executor.results) > 0 {
		executionResult = executor.results[0]
		executor.results = executor.results[1:]
	}

	var executionError error
	if len(executor.executionErrors) > 0 {
		executionError = executor.executionErrors[0]
		executor.executionErrors = executor.executionErrors[1:]
	}

	return executionResult, executionError
}

func TestNewRepositoryManagerRequiresExecutor(t *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(t, creationError, gitrepo.ErrGitExecutorNotConfigured)
	require.Nil(t, manager)
}

func TestCurrentBranchBehavior(t *testing.T) {
	testCases := []struct {
		name           string
		result         execshell.ExecutionResult
		executionError error
		expectedBranch string
	}{
		{
			name:           "reports_checked_out_branch",
			result:         execshell.ExecutionResult{StandardOutput: "main\n"},
			expectedBranch: testBranchNameConstant,
		},
		{
			name:           "detached_head_yields_unknown",
			result:         execshell.ExecutionResult{StandardOutput: "HEAD\n"},
			expectedBranch: gitrepo.UnknownBranchName,
		},
		{
			name:           "query_failure_yields_unknown",
			executionError: execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}},
			expectedBranch: gitrepo.UnknownBranchName,
		},
		{
			name:           "runner_error_yields_unknown",
			executionError: errors.New("spawn failure"),
			expectedBranch: gitrepo.UnknownBranchName,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &scriptedGitExecutor{
				results:         []execshell.ExecutionResult{testCase.result},
				executionErrors: []error{testCase.executionError},
			}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(t, creationError)

			branchName := manager.CurrentBranch(context.Background(), testRepositoryPathConstant)
			require.Equal(t, testCase.expectedBranch, branchName)
			require.Len(t, executor.recordedCommands, 1)
			require.Equal(t, []string{"rev-parse", "--abbrev-ref", "HEAD"}, executor.recordedCommands[0].Arguments)
			require.Equal(t, testRepositoryPathConstant, executor.recordedCommands[0].WorkingDirectory)
		})
	}
}

func TestListLocalBranchesParsesOutput(t *testing.T) {
	executor := &scriptedGitExecutor{
		results: []execshell.ExecutionResult{{StandardOutput: "develop\nmain\n\n"}},
	}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(t, creationError)

	branchNames := manager.ListLocalBranches(context.Background(), testRepositoryPathConstant)
	require.Equal(t, []string{"develop", "main"}, branchNames)
	require.Equal(t, []string{"branch", "--list", "--format=%(refname:short)"}, executor.recordedCommands[0].Arguments)
}

func TestListLocalBranchesReturnsEmptyOnFailure(t *testing.T) {
	executor := &scriptedGitExecutor{
		executionErrors: []error{execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}},
	}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(t, creationError)

	branchNames := manager.ListLocalBranches(context.Background(), testRepositoryPathConstant)
	require.Empty(t, branchNames)
}

func TestCheckoutAndPullOutcomes(t *testing.T) {
	testCases := []struct {
		name              string
		executionError    error
		expectedOk        bool
		expectedFragment  string
		expectedArguments []string
		invoke            func(manager *gitrepo.RepositoryManager, executor *scriptedGitExecutor) gitrepo.CommandOutcome
	}{
		{
			name:              "checkout_success",
			expectedOk:        true,
			expectedArguments: []string{"checkout", testBranchNameConstant},
			invoke: func(manager *gitrepo.RepositoryManager, executor *scriptedGitExecutor) gitrepo.CommandOutcome {
				return manager.Checkout(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
			},
		},
		{
			name: "checkout_failure_carries_diagnostics",
			executionError: execshell.CommandFailedError{
				Result: execshell.ExecutionResult{ExitCode: 1, StandardError: "error: pathspec did not match"},
			},
			expectedOk:        false,
			expectedFragment:  "pathspec did not match",
			expectedArguments: []string{"checkout", testBranchNameConstant},
			invoke: func(manager *gitrepo.RepositoryManager, executor *scriptedGitExecutor) gitrepo.CommandOutcome {
				return manager.Checkout(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
			},
		},
		{
			name:              "pull_success",
			expectedOk:        true,
			expectedArguments: []string{"pull", "--ff-only", "origin", testBranchNameConstant},
			invoke: func(manager *gitrepo.RepositoryManager, executor *scriptedGitExecutor) gitrepo.CommandOutcome {
				return manager.Pull(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
			},
		},
		{
			name:              "pull_runner_error_reports_failure",
			executionError:    errors.New("spawn failure"),
			expectedOk:        false,
			expectedFragment:  "spawn failure",
			expectedArguments: []string{"pull", "--ff-only", "origin", testBranchNameConstant},
			invoke: func(manager *gitrepo.RepositoryManager, executor *scriptedGitExecutor) gitrepo.CommandOutcome {
				return manager.Pull(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &scriptedGitExecutor{executionErrors: []error{testCase.executionError}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(t, creationError)

			outcome := testCase.invoke(manager, executor)
			require.Equal(t, testCase.expectedOk, outcome.Ok)
			if len(testCase.expectedFragment) > 0 {
				require.Contains(t, outcome.Output, testCase.expectedFragment)
			}
			require.Equal(t, testCase.expectedArguments, executor.recordedCommands[0].Arguments)
			require.Equal(t, "0", executor.recordedCommands[0].EnvironmentVariables["GIT_TERMINAL_PROMPT"])
		})
	}
}
