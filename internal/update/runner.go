package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	processorMissingMessageConstant      = "repository processor must be configured"
	rootDirectoryRequiredMessageConstant = "root directory must be provided"
	rootDirectoryInvalidTemplateConstant = "root directory %s does not exist or is not a directory: %w"
	emptyRepositoryListMessageConstant   = "no repositories configured, nothing to update"
	batchStartedMessageConstant          = "batch update started"
	batchCompletedMessageConstant        = "batch update completed"
	logFieldRootDirectoryConstant        = "root_directory"
	logFieldRepositoryCountConstant      = "repository_count"
	logFieldSuccessCountConstant         = "success_count"
	logFieldFailureCountConstant         = "failure_count"
	repositoryFailedMessageConstant      = "repository update failed"
	logFieldFailureDetailsConstant       = "details"
	logFieldFailureKindConstant          = "kind"
)

// ErrRepositoryProcessorNotConfigured indicates the runner was constructed without an engine.
var ErrRepositoryProcessorNotConfigured = errors.New(processorMissingMessageConstant)

// ErrRootDirectoryRequired indicates a run was attempted with an empty root directory.
var ErrRootDirectoryRequired = errors.New(rootDirectoryRequiredMessageConstant)

// ErrRootDirectoryInvalid indicates the root directory is missing or not a directory.
var ErrRootDirectoryInvalid = errors.New("root directory is not usable")

// RepositoryProcessor processes one repository and reports the outcome.
type RepositoryProcessor interface {
	ProcessRepository(executionContext context.Context, rootDirectory string, repositoryName string, branchAllowList []string) RepositoryOutcome
}

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// BatchRunnerDependencies enumerates the collaborators required by the runner.
type BatchRunnerDependencies struct {
	Processor RepositoryProcessor
	Logger    *zap.Logger
	Clock     Clock
}

// BatchRunner iterates the configured repository list through the engine.
type BatchRunner struct {
	processor RepositoryProcessor
	logger    *zap.Logger
	clock     Clock
}

// NewBatchRunner constructs a BatchRunner from the provided dependencies.
func NewBatchRunner(dependencies BatchRunnerDependencies) (*BatchRunner, error) {
	if dependencies.Processor == nil {
		return nil, ErrRepositoryProcessorNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &BatchRunner{processor: dependencies.Processor, logger: logger, clock: clock}, nil
}

// Run processes every configured repository in list order and aggregates a
// RunSummary. A repository failure never halts or skips subsequent entries;
// the only fatal condition is an unusable root directory.
func (runner *BatchRunner) Run(executionContext context.Context, rootDirectory string, repositories []string, branchAllowList []string) (RunSummary, error) {
	if len(rootDirectory) == 0 {
		return RunSummary{}, ErrRootDirectoryRequired
	}

	rootInfo, statError := os.Stat(rootDirectory)
	if statError != nil || !rootInfo.IsDir() {
		if statError == nil {
			statError = ErrRootDirectoryInvalid
		}
		return RunSummary{}, fmt.Errorf(rootDirectoryInvalidTemplateConstant, rootDirectory, statError)
	}

	summary := RunSummary{StartTime: runner.clock.Now(), TotalCount: len(repositories)}

	runner.logger.Info(
		batchStartedMessageConstant,
		zap.String(logFieldRootDirectoryConstant, rootDirectory),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
	)

	if len(repositories) == 0 {
		runner.logger.Warn(emptyRepositoryListMessageConstant)
	}

	for _, repositoryName := range repositories {
		outcome := runner.processor.ProcessRepository(executionContext, rootDirectory, repositoryName, branchAllowList)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Succeeded() {
			summary.SuccessCount++
			continue
		}

		summary.Failures = append(summary.Failures, outcome)
		runner.logger.Warn(
			repositoryFailedMessageConstant,
			zap.String(logFieldRepositoryConstant, outcome.RepositoryName),
			zap.String(logFieldFailureKindConstant, string(outcome.Kind)),
			zap.String(logFieldFailureDetailsConstant, outcome.Details),
		)
	}

	summary.EndTime = runner.clock.Now()
	runner.logger.Info(
		batchCompletedMessageConstant,
		zap.Int(logFieldRepositoryCountConstant, summary.TotalCount),
		zap.Int(logFieldSuccessCountConstant, summary.SuccessCount),
		zap.Int(logFieldFailureCountConstant, summary.FailureCount()),
	)

	return summary, nil
}
