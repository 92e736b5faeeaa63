package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	gitExecutableNameConstant              = "git"
	loggerMissingMessageConstant           = "logger must be configured"
	commandRunnerMissingMessageConstant    = "command runner must be configured"
	commandFailedTemplateConstant          = "%s failed with exit code %d%s"
	commandExecutionFailedTemplateConstant = "%s failed: %s"
	commandLabelSeparatorConstant          = " "
	standardErrorSuffixTemplateConstant    = ": %s"
	unknownFailureMessageConstant          = "unknown error"
)

// CommandName identifies an external executable invoked through the shell layer.
type CommandName string

// CommandGit names the git executable.
const CommandGit CommandName = CommandName(gitExecutableNameConstant)

// CommandDetails describes the invocation parameters for a shell command.
// Commands never read standard input; prompts are suppressed via environment
// variables instead.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand pairs an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands and reports their results.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates a ShellExecutor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrCommandRunnerNotConfigured indicates a ShellExecutor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerMissingMessageConstant)

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including its diagnostic output.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedTemplateConstant, failure.Command.label(), failure.Result.ExitCode, formatStandardErrorSuffix(failure.Result.StandardError))
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	failureMessage := unknownFailureMessageConstant
	if failure.Cause != nil {
		failureMessage = failure.Cause.Error()
	}
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, failure.Command.label(), failureMessage)
}

// Unwrap exposes the underlying execution failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

func (command ShellCommand) label() string {
	labelParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		labelParts = append(labelParts, strings.Join(command.Details.Arguments, commandLabelSeparatorConstant))
	}
	return strings.Join(labelParts, commandLabelSeparatorConstant)
}

func formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}
