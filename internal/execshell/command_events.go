package execshell

// CommandEventObserver is notified around every git invocation issued while collecting feed history.
type CommandEventObserver interface {
	// CommandStarted fires before the process is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the process exits, including non-zero exits.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be run at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// silentObserver stands in when no observers are registered.
type silentObserver struct{}

func (silentObserver) CommandStarted(ShellCommand) {}

func (silentObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (silentObserver) CommandExecutionFailed(ShellCommand, error) {}
