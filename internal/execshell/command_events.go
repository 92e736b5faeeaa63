package execshell

// CommandEventObserver receives lifecycle notifications for each git
// subprocess. The console format registers an observer so users see every
// checkout and pull as it happens; structured logging relies on the executor's
// own log entries instead.
type CommandEventObserver interface {
	// CommandStarted fires immediately before the subprocess is spawned.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the subprocess exits, regardless of exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the subprocess could not be spawned at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver discards all command events.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
