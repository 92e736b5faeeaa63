// Package update implements the repository synchronization core.
//
// Engine resolves the branch to use for one working copy and performs the
// checkout/pull pair; BatchRunner iterates the configured repository list,
// isolating per-repository failures and aggregating a RunSummary.
package update
