package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/repoup/internal/update"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	selectedEntryStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#00FF00"))

	dimmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	successOutcomeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#00FF00"))

	failedOutcomeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFA500"))

	contentBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#AA55FF")).
			Padding(1, 2)
)

const (
	applicationTitleConstant = "repoup: batch repository updater"
	cursorMarkerConstant     = "> "
	cursorSpacerConstant     = "  "
	inputCaretConstant       = "▌"
)

// View implements tea.Model by rendering the active screen.
func (model Model) View() string {
	if model.shouldQuit {
		return ""
	}

	var sections []string
	sections = append(sections, titleStyle.Render(applicationTitleConstant))
	sections = append(sections, "")
	sections = append(sections, contentBoxStyle.Render(model.renderScreen()))

	if len(model.errorMessage) > 0 {
		sections = append(sections, errorStyle.Render(model.errorMessage))
	} else if len(model.statusMessage) > 0 {
		sections = append(sections, statusStyle.Render(model.statusMessage))
	}

	return strings.Join(sections, "\n") + "\n"
}

func (model Model) renderScreen() string {
	switch model.screen {
	case ScreenMainMenu:
		return model.renderMainMenu()
	case ScreenRepositoryList:
		return model.renderRepositoryList()
	case ScreenAddRepository:
		return model.renderInputScreen("Repository name to add", "esc cancels")
	case ScreenAddBranch:
		return model.renderInputScreen("Branch name to add", "esc cancels")
	case ScreenSetRoot:
		return model.renderInputScreen("Root directory", "~ expands to your home directory, esc cancels")
	case ScreenConfirmCreateRoot:
		return model.renderConfirmCreateRoot()
	case ScreenRemoveRepository:
		return model.renderSelectionList("Select a repository to remove", model.settings().Repositories)
	case ScreenManageBranches:
		return model.renderManageBranches()
	case ScreenRunning:
		return "Updating repositories, git output follows in the log..."
	case ScreenSummary:
		return model.renderSummary()
	}
	return ""
}

func (model Model) renderMainMenu() string {
	var menuLines []string
	for entryIndex, entryLabel := range mainMenuLabels {
		if entryIndex == model.menuIndex {
			menuLines = append(menuLines, selectedEntryStyle.Render(cursorMarkerConstant+entryLabel))
			continue
		}
		menuLines = append(menuLines, cursorSpacerConstant+entryLabel)
	}
	menuLines = append(menuLines, "")
	menuLines = append(menuLines, dimmedStyle.Render("↑/↓ move, enter select, q quit"))
	return strings.Join(menuLines, "\n")
}

func (model Model) renderRepositoryList() string {
	settings := model.settings()

	var listLines []string
	if len(settings.RootDirectory) > 0 {
		listLines = append(listLines, "Root: "+settings.RootDirectory)
	} else {
		listLines = append(listLines, dimmedStyle.Render("Root: (not set)"))
	}
	listLines = append(listLines, "Branches: "+strings.Join(settings.Branches, ", "))
	listLines = append(listLines, "")

	if len(settings.Repositories) == 0 {
		listLines = append(listLines, dimmedStyle.Render("No repositories configured."))
	}
	for repositoryIndex, repositoryName := range settings.Repositories {
		listLines = append(listLines, fmt.Sprintf("%2d. %s", repositoryIndex+1, repositoryName))
	}
	listLines = append(listLines, "")
	listLines = append(listLines, dimmedStyle.Render("esc returns to the menu"))
	return strings.Join(listLines, "\n")
}

func (model Model) renderInputScreen(promptLabel string, hintLabel string) string {
	inputLines := []string{
		promptLabel + ":",
		"",
		cursorMarkerConstant + model.inputValue + inputCaretConstant,
		"",
		dimmedStyle.Render("enter confirms, " + hintLabel),
	}
	return strings.Join(inputLines, "\n")
}

func (model Model) renderConfirmCreateRoot() string {
	yesLabel := "  Yes  "
	noLabel := "  No  "
	if model.confirmYes {
		yesLabel = selectedEntryStyle.Render("> Yes <")
	} else {
		noLabel = selectedEntryStyle.Render("> No <")
	}

	confirmLines := []string{
		fmt.Sprintf("%s does not exist.", model.pendingRoot),
		"Create it?",
		"",
		yesLabel + "   " + noLabel,
		"",
		dimmedStyle.Render("←/→ choose, enter confirms, esc cancels"),
	}
	return strings.Join(confirmLines, "\n")
}

func (model Model) renderSelectionList(promptLabel string, listEntries []string) string {
	selectionLines := []string{promptLabel + ":", ""}
	for entryIndex, entryValue := range listEntries {
		if entryIndex == model.selectionIndex {
			selectionLines = append(selectionLines, selectedEntryStyle.Render(cursorMarkerConstant+entryValue))
			continue
		}
		selectionLines = append(selectionLines, cursorSpacerConstant+entryValue)
	}
	selectionLines = append(selectionLines, "")
	selectionLines = append(selectionLines, dimmedStyle.Render("↑/↓ move, enter removes, esc returns"))
	return strings.Join(selectionLines, "\n")
}

func (model Model) renderManageBranches() string {
	branchLines := []string{"Branch allow list (priority order):", ""}
	branches := model.settings().Branches
	if len(branches) == 0 {
		branchLines = append(branchLines, dimmedStyle.Render("No branches configured."))
	}
	for branchIndex, branchName := range branches {
		if branchIndex == model.selectionIndex {
			branchLines = append(branchLines, selectedEntryStyle.Render(cursorMarkerConstant+branchName))
			continue
		}
		branchLines = append(branchLines, cursorSpacerConstant+branchName)
	}
	branchLines = append(branchLines, "")
	branchLines = append(branchLines, dimmedStyle.Render("a adds, d deletes, ↑/↓ move, esc returns"))
	return strings.Join(branchLines, "\n")
}

func (model Model) renderSummary() string {
	if model.runFailed {
		return errorStyle.Render("Update failed: "+model.runFailure) + "\n\n" + dimmedStyle.Render("enter returns to the menu")
	}

	var summaryLines []string
	for _, repositoryOutcome := range model.summary.Outcomes {
		summaryLines = append(summaryLines, renderOutcomeLine(repositoryOutcome))
	}
	if len(summaryLines) == 0 {
		summaryLines = append(summaryLines, dimmedStyle.Render("No repositories were processed."))
	}
	summaryLines = append(summaryLines, "")
	summaryLines = append(summaryLines, fmt.Sprintf(
		"Updated %d of %d repositories in %.1fs (%d failed)",
		model.summary.SuccessCount,
		model.summary.TotalCount,
		model.summary.Duration().Seconds(),
		model.summary.FailureCount(),
	))
	summaryLines = append(summaryLines, "")
	summaryLines = append(summaryLines, dimmedStyle.Render("enter returns to the menu, q quits"))
	return strings.Join(summaryLines, "\n")
}

func renderOutcomeLine(repositoryOutcome update.RepositoryOutcome) string {
	if repositoryOutcome.Succeeded() {
		return successOutcomeStyle.Render("✓ ") + fmt.Sprintf("%s (%s)", repositoryOutcome.RepositoryName, repositoryOutcome.BranchName)
	}
	return failedOutcomeStyle.Render("✗ ") + fmt.Sprintf("%s [%s] %s", repositoryOutcome.RepositoryName, repositoryOutcome.Kind, repositoryOutcome.Details)
}
