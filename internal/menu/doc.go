// Package menu implements the interactive terminal session. It renders a
// bubbletea state machine over the settings store and the batch updater so
// users can edit the repository list and launch updates without memorizing
// subcommands.
package menu
