package update

import "os"

// workingDirectoryScope records the process working directory so repository
// operations can run with the process pointed at the target working copy and
// the prior directory is restored on every outcome path.
type workingDirectoryScope struct {
	previousDirectory string
	restored          bool
}

// enterWorkingDirectory switches the process into targetDirectory and returns
// a scope whose Restore must be deferred by the caller.
func enterWorkingDirectory(targetDirectory string) (*workingDirectoryScope, error) {
	previousDirectory, resolveError := os.Getwd()
	if resolveError != nil {
		return nil, resolveError
	}

	if changeError := os.Chdir(targetDirectory); changeError != nil {
		return nil, changeError
	}

	return &workingDirectoryScope{previousDirectory: previousDirectory}, nil
}

// Restore returns the process to the directory recorded at scope entry.
// Repeated calls are no-ops.
func (scope *workingDirectoryScope) Restore() error {
	if scope == nil || scope.restored {
		return nil
	}
	scope.restored = true
	return os.Chdir(scope.previousDirectory)
}
