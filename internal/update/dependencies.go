package update

import (
	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/execshell"
	"github.com/temirov/repoup/internal/gitrepo"
	"github.com/temirov/repoup/internal/ui"
)

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging attaches a console observer that echoes each git invocation.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	if humanReadableLogging {
		shellExecutor.RegisterEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	return shellExecutor, nil
}

// ResolveRepositoryGateway returns the provided gateway or constructs one from the executor.
func ResolveRepositoryGateway(existing RepositoryGateway, executor gitrepo.GitExecutor) (RepositoryGateway, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}
