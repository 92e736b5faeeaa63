package menu

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/repoup/internal/update"
)

// batchFinishedMessage carries the result of a background batch run.
type batchFinishedMessage struct {
	summary  update.RunSummary
	runError error
}

// runBatchCommand launches the batch update off the UI goroutine and delivers
// the summary back as a message.
func runBatchCommand(executor BatchExecutor, rootDirectory string, repositories []string, branchAllowList []string) tea.Cmd {
	return func() tea.Msg {
		summary, runError := executor.Run(context.Background(), rootDirectory, repositories, branchAllowList)
		return batchFinishedMessage{summary: summary, runError: runError}
	}
}
