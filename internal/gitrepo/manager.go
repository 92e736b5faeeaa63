package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/repoup/internal/execshell"
)

const (
	executorMissingMessageConstant              = "git executor must be configured"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitAbbrevRefFlagConstant                    = "--abbrev-ref"
	gitHeadReferenceConstant                    = "HEAD"
	gitBranchSubcommandConstant                 = "branch"
	gitBranchListFlagConstant                   = "--list"
	gitBranchFormatFlagConstant                 = "--format=%(refname:short)"
	gitCheckoutSubcommandConstant               = "checkout"
	gitPullSubcommandConstant                   = "pull"
	gitPullFastForwardFlagConstant              = "--ff-only"
	originRemoteNameConstant                    = "origin"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	branchOutputLineSeparatorConstant           = "\n"
)

// UnknownBranchName is returned when the checked-out branch cannot be determined.
const UnknownBranchName = "(unknown)"

// ErrGitExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandOutcome reports whether a mutating git command succeeded and carries its diagnostic output.
type CommandOutcome struct {
	Ok     bool
	Output string
}

// RepositoryManager performs branch queries and synchronization commands against one working copy at a time.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager from the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CurrentBranch reports the checked-out branch for the working copy at repositoryPath.
// It returns UnknownBranchName when the query fails or the repository is in a detached HEAD state.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) string {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant})
	if executionError != nil {
		return UnknownBranchName
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 || strings.EqualFold(branchName, gitHeadReferenceConstant) {
		return UnknownBranchName
	}
	return branchName
}

// ListLocalBranches reports the local branch names for the working copy at repositoryPath.
// The slice is empty when the query fails.
func (manager *RepositoryManager) ListLocalBranches(executionContext context.Context, repositoryPath string) []string {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, []string{gitBranchSubcommandConstant, gitBranchListFlagConstant, gitBranchFormatFlagConstant})
	if executionError != nil {
		return nil
	}

	branchNames := make([]string, 0)
	for _, outputLine := range strings.Split(executionResult.StandardOutput, branchOutputLineSeparatorConstant) {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		branchNames = append(branchNames, trimmedLine)
	}
	return branchNames
}

// Checkout switches the working copy at repositoryPath to the named branch.
func (manager *RepositoryManager) Checkout(executionContext context.Context, repositoryPath string, branchName string) CommandOutcome {
	return manager.executeMutatingGit(executionContext, repositoryPath, []string{gitCheckoutSubcommandConstant, branchName})
}

// Pull fast-forwards the named branch from its origin counterpart.
func (manager *RepositoryManager) Pull(executionContext context.Context, repositoryPath string, branchName string) CommandOutcome {
	return manager.executeMutatingGit(executionContext, repositoryPath, []string{gitPullSubcommandConstant, gitPullFastForwardFlagConstant, originRemoteNameConstant, branchName})
}

func (manager *RepositoryManager) executeMutatingGit(executionContext context.Context, repositoryPath string, arguments []string) CommandOutcome {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, arguments)
	if executionError == nil {
		return CommandOutcome{Ok: true, Output: combineOutputs(executionResult)}
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		return CommandOutcome{Ok: false, Output: combineOutputs(commandFailure.Result)}
	}
	return CommandOutcome{Ok: false, Output: executionError.Error()}
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments []string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
}

func combineOutputs(executionResult execshell.ExecutionResult) string {
	outputSections := make([]string, 0, 2)
	for _, outputSection := range []string{executionResult.StandardOutput, executionResult.StandardError} {
		trimmedSection := strings.TrimSpace(outputSection)
		if len(trimmedSection) > 0 {
			outputSections = append(outputSections, trimmedSection)
		}
	}
	return strings.Join(outputSections, branchOutputLineSeparatorConstant)
}
