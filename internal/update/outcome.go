package update

import "time"

// OutcomeKind classifies the result of processing one repository.
type OutcomeKind string

// Outcome classifications, ordered from success to hard failure.
const (
	OutcomeSuccess                 OutcomeKind = OutcomeKind("success")
	OutcomeSkippedMissingDirectory OutcomeKind = OutcomeKind("skipped_missing_directory")
	OutcomeSkippedNotRepository    OutcomeKind = OutcomeKind("skipped_not_repository")
	OutcomeBranchNotFound          OutcomeKind = OutcomeKind("branch_not_found")
	OutcomeCheckoutFailed          OutcomeKind = OutcomeKind("checkout_failed")
	OutcomePullFailed              OutcomeKind = OutcomeKind("pull_failed")
	OutcomeUnexpectedError         OutcomeKind = OutcomeKind("unexpected_error")
)

// RepositoryOutcome reports the result of processing one repository.
type RepositoryOutcome struct {
	RepositoryName string
	BranchName     string
	Kind           OutcomeKind
	Details        string
}

// Succeeded reports whether the outcome represents a completed update.
func (outcome RepositoryOutcome) Succeeded() bool {
	return outcome.Kind == OutcomeSuccess
}

// RunSummary aggregates the outcomes of one batch invocation. Outcomes holds
// every repository result in processing order; Failures holds the non-success
// subset in the same order.
type RunSummary struct {
	StartTime    time.Time
	EndTime      time.Time
	TotalCount   int
	SuccessCount int
	Outcomes     []RepositoryOutcome
	Failures     []RepositoryOutcome
}

// FailureCount reports how many repositories did not complete successfully.
func (summary RunSummary) FailureCount() int {
	return len(summary.Failures)
}

// Duration reports the elapsed wall-clock time of the batch.
func (summary RunSummary) Duration() time.Duration {
	return summary.EndTime.Sub(summary.StartTime)
}
