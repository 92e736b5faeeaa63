package menu

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	pathutils "github.com/temirov/repoup/internal/utils/path"
)

// Init implements tea.Model. The session starts without background work.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model by routing messages to the active screen.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(typedMessage)

	case tea.WindowSizeMsg:
		model.windowWidth = typedMessage.Width
		model.windowHeight = typedMessage.Height
		return model, nil

	case batchFinishedMessage:
		return model.handleBatchFinished(typedMessage)
	}

	return model, nil
}

func (model Model) handleKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMessage.Type == tea.KeyCtrlC {
		model.shouldQuit = true
		return model, tea.Quit
	}

	switch model.screen {
	case ScreenMainMenu:
		return model.handleMainMenuKey(keyMessage)
	case ScreenRepositoryList:
		return model.handleListViewKey(keyMessage)
	case ScreenAddRepository, ScreenAddBranch, ScreenSetRoot:
		return model.handleInputKey(keyMessage)
	case ScreenRemoveRepository:
		return model.handleRemoveRepositoryKey(keyMessage)
	case ScreenManageBranches:
		return model.handleManageBranchesKey(keyMessage)
	case ScreenConfirmCreateRoot:
		return model.handleConfirmCreateRootKey(keyMessage)
	case ScreenRunning:
		return model, nil
	case ScreenSummary:
		return model.handleSummaryKey(keyMessage)
	}

	return model, nil
}

func (model Model) handleMainMenuKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	model.errorMessage = ""

	switch keyMessage.String() {
	case "q", "esc":
		model.shouldQuit = true
		return model, tea.Quit
	case "up", "k":
		if model.menuIndex > 0 {
			model.menuIndex--
		}
	case "down", "j":
		if model.menuIndex < menuEntryCount-1 {
			model.menuIndex++
		}
	case "enter":
		return model.activateMainMenuEntry()
	}

	return model, nil
}

func (model Model) activateMainMenuEntry() (tea.Model, tea.Cmd) {
	switch model.menuIndex {
	case menuEntryUpdateAll:
		return model.startBatchRun()
	case menuEntryShowRepositories:
		model.screen = ScreenRepositoryList
	case menuEntryAddRepository:
		model.inputValue = ""
		model.screen = ScreenAddRepository
	case menuEntryRemoveRepository:
		if len(model.settings().Repositories) == 0 {
			model.errorMessage = noRepositoriesMessageConstant
			return model, nil
		}
		model.selectionIndex = 0
		model.screen = ScreenRemoveRepository
	case menuEntryManageBranches:
		model.selectionIndex = 0
		model.screen = ScreenManageBranches
	case menuEntrySetRootDirectory:
		model.inputValue = model.settings().RootDirectory
		model.screen = ScreenSetRoot
	case menuEntryExit:
		model.shouldQuit = true
		return model, tea.Quit
	}

	return model, nil
}

func (model Model) startBatchRun() (tea.Model, tea.Cmd) {
	settings := model.settings()
	if len(strings.TrimSpace(settings.RootDirectory)) == 0 {
		model.errorMessage = noRootConfiguredMessageConstant
		return model, nil
	}

	model.screen = ScreenRunning
	model.runFailed = false
	model.runFailure = ""
	return model, runBatchCommand(model.executor, settings.RootDirectory, settings.Repositories, settings.Branches)
}

func (model Model) handleBatchFinished(finishedMessage batchFinishedMessage) (tea.Model, tea.Cmd) {
	model.summary = finishedMessage.summary
	model.runFailed = finishedMessage.runError != nil
	if finishedMessage.runError != nil {
		model.runFailure = finishedMessage.runError.Error()
	}
	model.screen = ScreenSummary
	return model, nil
}

func (model Model) handleListViewKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "esc", "q", "enter":
		model.screen = ScreenMainMenu
	}
	return model, nil
}

func (model Model) handleSummaryKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "q":
		model.shouldQuit = true
		return model, tea.Quit
	case "esc", "enter":
		model.screen = ScreenMainMenu
	}
	return model, nil
}

func (model Model) handleInputKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.Type {
	case tea.KeyEsc:
		model.inputValue = ""
		model.errorMessage = ""
		model.screen = ScreenMainMenu
		return model, nil
	case tea.KeyEnter:
		return model.commitInputValue()
	case tea.KeyBackspace:
		if len(model.inputValue) > 0 {
			inputRunes := []rune(model.inputValue)
			model.inputValue = string(inputRunes[:len(inputRunes)-1])
		}
		return model, nil
	case tea.KeyRunes:
		model.inputValue += string(keyMessage.Runes)
		return model, nil
	case tea.KeySpace:
		model.inputValue += " "
		return model, nil
	}
	return model, nil
}

func (model Model) commitInputValue() (tea.Model, tea.Cmd) {
	trimmedInput := strings.TrimSpace(model.inputValue)

	switch model.screen {
	case ScreenAddRepository:
		if addError := model.store.AddRepository(trimmedInput); addError != nil {
			model.errorMessage = addError.Error()
			return model, nil
		}
		model.statusMessage = "Added repository " + trimmedInput
	case ScreenAddBranch:
		if addError := model.store.AddBranch(trimmedInput); addError != nil {
			model.errorMessage = addError.Error()
			return model, nil
		}
		model.statusMessage = "Added branch " + trimmedInput
		model.inputValue = ""
		model.errorMessage = ""
		model.selectionIndex = 0
		model.screen = ScreenManageBranches
		return model, nil
	case ScreenSetRoot:
		return model.commitRootDirectory(pathutils.NewHomeExpander().Expand(trimmedInput))
	}

	model.inputValue = ""
	model.errorMessage = ""
	model.screen = ScreenMainMenu
	return model, nil
}

func (model Model) commitRootDirectory(rootDirectory string) (tea.Model, tea.Cmd) {
	setError := model.store.SetRootDirectory(rootDirectory, false)
	if setError == nil {
		model.statusMessage = "Root directory set to " + rootDirectory
		model.inputValue = ""
		model.errorMessage = ""
		model.screen = ScreenMainMenu
		return model, nil
	}

	if _, statError := os.Stat(rootDirectory); len(rootDirectory) > 0 && os.IsNotExist(statError) {
		model.pendingRoot = rootDirectory
		model.confirmYes = false
		model.screen = ScreenConfirmCreateRoot
		return model, nil
	}

	model.errorMessage = setError.Error()
	return model, nil
}

func (model Model) handleConfirmCreateRootKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "left", "right", "tab", "h", "l":
		model.confirmYes = !model.confirmYes
	case "esc", "n":
		model.pendingRoot = ""
		model.screen = ScreenSetRoot
	case "y":
		return model.createPendingRoot()
	case "enter":
		if model.confirmYes {
			return model.createPendingRoot()
		}
		model.pendingRoot = ""
		model.screen = ScreenSetRoot
	}
	return model, nil
}

func (model Model) createPendingRoot() (tea.Model, tea.Cmd) {
	if setError := model.store.SetRootDirectory(model.pendingRoot, true); setError != nil {
		model.errorMessage = setError.Error()
		model.screen = ScreenSetRoot
		return model, nil
	}
	model.statusMessage = "Root directory set to " + model.pendingRoot
	model.pendingRoot = ""
	model.inputValue = ""
	model.errorMessage = ""
	model.screen = ScreenMainMenu
	return model, nil
}

func (model Model) handleRemoveRepositoryKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	repositories := model.settings().Repositories

	switch keyMessage.String() {
	case "esc", "q":
		model.errorMessage = ""
		model.screen = ScreenMainMenu
	case "up", "k":
		if model.selectionIndex > 0 {
			model.selectionIndex--
		}
	case "down", "j":
		if model.selectionIndex < len(repositories)-1 {
			model.selectionIndex++
		}
	case "enter":
		removedName, removeError := model.store.RemoveRepository(model.selectionIndex)
		if removeError != nil {
			model.errorMessage = removeError.Error()
			return model, nil
		}
		model.statusMessage = "Removed repository " + removedName
		if len(model.settings().Repositories) == 0 {
			model.screen = ScreenMainMenu
			return model, nil
		}
		if model.selectionIndex >= len(model.settings().Repositories) {
			model.selectionIndex = len(model.settings().Repositories) - 1
		}
	}
	return model, nil
}

func (model Model) handleManageBranchesKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	branches := model.settings().Branches

	switch keyMessage.String() {
	case "esc", "q":
		model.errorMessage = ""
		model.screen = ScreenMainMenu
	case "up", "k":
		if model.selectionIndex > 0 {
			model.selectionIndex--
		}
	case "down", "j":
		if model.selectionIndex < len(branches)-1 {
			model.selectionIndex++
		}
	case "a":
		model.inputValue = ""
		model.screen = ScreenAddBranch
	case "d":
		if len(branches) == 0 {
			return model, nil
		}
		removedName, removeError := model.store.RemoveBranch(model.selectionIndex)
		if removeError != nil {
			model.errorMessage = removeError.Error()
			return model, nil
		}
		model.statusMessage = "Removed branch " + removedName
		if model.selectionIndex >= len(model.settings().Branches) && model.selectionIndex > 0 {
			model.selectionIndex--
		}
	}
	return model, nil
}
