package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/gitrepo"
)

const (
	gatewayMissingMessageConstant            = "repository gateway must be configured"
	gitMetadataDirectoryNameConstant         = ".git"
	missingDirectoryDetailsTemplateConstant  = "directory %s does not exist"
	notRepositoryDetailsTemplateConstant     = "%s has no %s metadata directory"
	branchNotFoundDetailsTemplateConstant    = "none of the configured branches %v exist locally"
	unexpectedFailureDetailsTemplateConstant = "unexpected failure: %v"
	workingDirectoryRestoreFailedMessage     = "could not restore the prior working directory"
	logFieldRepositoryConstant               = "repository"
	logFieldBranchConstant                   = "branch"
	logFieldOutcomeConstant                  = "outcome"
	repositoryProcessedMessageConstant       = "repository processed"
	alreadyOnBranchDetailsTemplateConstant   = "already on %s"
	checkoutPerformedDetailsTemplateConstant = "switched to %s"
)

// ErrRepositoryGatewayNotConfigured indicates the engine was constructed without a gateway.
var ErrRepositoryGatewayNotConfigured = errors.New(gatewayMissingMessageConstant)

// RepositoryGateway exposes the git operations the engine performs against one working copy.
type RepositoryGateway interface {
	CurrentBranch(executionContext context.Context, repositoryPath string) string
	ListLocalBranches(executionContext context.Context, repositoryPath string) []string
	Checkout(executionContext context.Context, repositoryPath string, branchName string) gitrepo.CommandOutcome
	Pull(executionContext context.Context, repositoryPath string, branchName string) gitrepo.CommandOutcome
}

// EngineDependencies enumerates the collaborators required by the engine.
type EngineDependencies struct {
	Gateway RepositoryGateway
	Logger  *zap.Logger
}

// Engine synchronizes a single repository against its upstream.
type Engine struct {
	gateway RepositoryGateway
	logger  *zap.Logger
}

// NewEngine constructs an Engine from the provided dependencies.
func NewEngine(dependencies EngineDependencies) (*Engine, error) {
	if dependencies.Gateway == nil {
		return nil, ErrRepositoryGatewayNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{gateway: dependencies.Gateway, logger: logger}, nil
}

// ProcessRepository resolves the branch for one repository and fast-forwards it.
// Every failure is contained in the returned outcome; the method never panics
// and never returns an error.
func (engine *Engine) ProcessRepository(executionContext context.Context, rootDirectory string, repositoryName string, branchAllowList []string) (outcome RepositoryOutcome) {
	outcome = RepositoryOutcome{RepositoryName: repositoryName}

	defer func() {
		if recovered := recover(); recovered != nil {
			outcome.Kind = OutcomeUnexpectedError
			outcome.Details = fmt.Sprintf(unexpectedFailureDetailsTemplateConstant, recovered)
		}
		engine.logger.Debug(
			repositoryProcessedMessageConstant,
			zap.String(logFieldRepositoryConstant, outcome.RepositoryName),
			zap.String(logFieldBranchConstant, outcome.BranchName),
			zap.String(logFieldOutcomeConstant, string(outcome.Kind)),
		)
	}()

	repositoryPath := filepath.Join(rootDirectory, repositoryName)
	pathInfo, statError := os.Stat(repositoryPath)
	if statError != nil || !pathInfo.IsDir() {
		outcome.Kind = OutcomeSkippedMissingDirectory
		outcome.Details = fmt.Sprintf(missingDirectoryDetailsTemplateConstant, repositoryPath)
		return outcome
	}

	if _, metadataStatError := os.Stat(filepath.Join(repositoryPath, gitMetadataDirectoryNameConstant)); metadataStatError != nil {
		outcome.Kind = OutcomeSkippedNotRepository
		outcome.Details = fmt.Sprintf(notRepositoryDetailsTemplateConstant, repositoryPath, gitMetadataDirectoryNameConstant)
		return outcome
	}

	currentBranch := engine.gateway.CurrentBranch(executionContext, repositoryPath)
	localBranches := engine.gateway.ListLocalBranches(executionContext, repositoryPath)

	resolvedBranch, branchResolved := resolveBranch(branchAllowList, localBranches)
	if !branchResolved {
		outcome.Kind = OutcomeBranchNotFound
		outcome.Details = fmt.Sprintf(branchNotFoundDetailsTemplateConstant, branchAllowList)
		return outcome
	}
	outcome.BranchName = resolvedBranch

	directoryScope, scopeError := enterWorkingDirectory(repositoryPath)
	if scopeError != nil {
		outcome.Kind = OutcomeUnexpectedError
		outcome.Details = fmt.Sprintf(unexpectedFailureDetailsTemplateConstant, scopeError)
		return outcome
	}
	defer func() {
		if restoreError := directoryScope.Restore(); restoreError != nil {
			engine.logger.Warn(workingDirectoryRestoreFailedMessage, zap.Error(restoreError))
		}
	}()

	checkoutDetails := fmt.Sprintf(alreadyOnBranchDetailsTemplateConstant, resolvedBranch)
	if currentBranch != resolvedBranch {
		checkoutOutcome := engine.gateway.Checkout(executionContext, repositoryPath, resolvedBranch)
		if !checkoutOutcome.Ok {
			outcome.Kind = OutcomeCheckoutFailed
			outcome.Details = checkoutOutcome.Output
			return outcome
		}
		checkoutDetails = fmt.Sprintf(checkoutPerformedDetailsTemplateConstant, resolvedBranch)
	}

	pullOutcome := engine.gateway.Pull(executionContext, repositoryPath, resolvedBranch)
	if !pullOutcome.Ok {
		outcome.Kind = OutcomePullFailed
		outcome.Details = pullOutcome.Output
		return outcome
	}

	outcome.Kind = OutcomeSuccess
	outcome.Details = joinDetails(checkoutDetails, pullOutcome.Output)
	return outcome
}

// resolveBranch selects the first allow-listed branch present among the local
// branches. The allow-list order is the priority order.
func resolveBranch(branchAllowList []string, localBranches []string) (string, bool) {
	localBranchSet := make(map[string]struct{}, len(localBranches))
	for _, localBranch := range localBranches {
		localBranchSet[localBranch] = struct{}{}
	}

	for _, allowedBranch := range branchAllowList {
		if _, branchExists := localBranchSet[allowedBranch]; branchExists {
			return allowedBranch, true
		}
	}
	return "", false
}

func joinDetails(detailSections ...string) string {
	populatedSections := make([]string, 0, len(detailSections))
	for _, detailSection := range detailSections {
		trimmedSection := strings.TrimSpace(detailSection)
		if len(trimmedSection) > 0 {
			populatedSections = append(populatedSections, trimmedSection)
		}
	}
	return strings.Join(populatedSections, "; ")
}
