package menu

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/configstore"
	"github.com/temirov/repoup/internal/update"
)

// Screen identifies the active view of the interactive session.
type Screen int

// Screens of the interactive session.
const (
	ScreenMainMenu Screen = iota
	ScreenRepositoryList
	ScreenAddRepository
	ScreenRemoveRepository
	ScreenManageBranches
	ScreenAddBranch
	ScreenSetRoot
	ScreenConfirmCreateRoot
	ScreenRunning
	ScreenSummary
)

var screenNames = []string{
	"MainMenu",
	"RepositoryList",
	"AddRepository",
	"RemoveRepository",
	"ManageBranches",
	"AddBranch",
	"SetRoot",
	"ConfirmCreateRoot",
	"Running",
	"Summary",
}

func (screen Screen) String() string {
	if int(screen) < len(screenNames) {
		return screenNames[screen]
	}
	return "Unknown"
}

// Main menu entries in display order.
const (
	menuEntryUpdateAll = iota
	menuEntryShowRepositories
	menuEntryAddRepository
	menuEntryRemoveRepository
	menuEntryManageBranches
	menuEntrySetRootDirectory
	menuEntryExit
	menuEntryCount
)

var mainMenuLabels = []string{
	"Update all repositories",
	"Show configured repositories",
	"Add a repository",
	"Remove a repository",
	"Manage branches",
	"Set root directory",
	"Exit",
}

const (
	settingsStoreMissingMessageConstant = "settings store must be configured"
	batchExecutorMissingMessageConstant = "batch executor must be configured"
	noRootConfiguredMessageConstant     = "no root directory configured; set one first"
	noRepositoriesMessageConstant       = "no repositories configured; add one first"
)

// ErrSettingsStoreNotConfigured indicates the model was constructed without a store.
var ErrSettingsStoreNotConfigured = errors.New(settingsStoreMissingMessageConstant)

// ErrBatchExecutorNotConfigured indicates the model was constructed without an executor.
var ErrBatchExecutorNotConfigured = errors.New(batchExecutorMissingMessageConstant)

// BatchExecutor launches one batch update over the configured repositories.
type BatchExecutor interface {
	Run(executionContext context.Context, rootDirectory string, repositories []string, branchAllowList []string) (update.RunSummary, error)
}

// ModelDependencies enumerates the collaborators required by the model.
type ModelDependencies struct {
	Store    *configstore.Store
	Executor BatchExecutor
	Logger   *zap.Logger
}

// Model holds the state of the interactive session.
type Model struct {
	store    *configstore.Store
	executor BatchExecutor
	logger   *zap.Logger

	screen         Screen
	menuIndex      int
	selectionIndex int
	inputValue     string
	confirmYes     bool
	pendingRoot    string
	errorMessage   string
	statusMessage  string
	summary        update.RunSummary
	runFailed      bool
	runFailure     string
	shouldQuit     bool

	windowWidth  int
	windowHeight int
}

// NewModel constructs the interactive session model. The store is loaded so
// the first render reflects the persisted settings.
func NewModel(dependencies ModelDependencies) (Model, error) {
	if dependencies.Store == nil {
		return Model{}, ErrSettingsStoreNotConfigured
	}
	if dependencies.Executor == nil {
		return Model{}, ErrBatchExecutorNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dependencies.Store.Load()

	return Model{
		store:    dependencies.Store,
		executor: dependencies.Executor,
		logger:   logger,
		screen:   ScreenMainMenu,
	}, nil
}

// CurrentScreen exposes the active screen for callers and tests.
func (model Model) CurrentScreen() Screen {
	return model.screen
}

// ShouldQuit reports whether the session asked to terminate.
func (model Model) ShouldQuit() bool {
	return model.shouldQuit
}

func (model Model) settings() configstore.Settings {
	return model.store.Settings()
}
