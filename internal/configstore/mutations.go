package configstore

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	repositoryNameRequiredMessageConstant    = "repository name must not be empty"
	repositoryAlreadyPresentMessageConstant  = "repository is already configured"
	repositoryIndexOutOfRangeMessageConstant = "repository selection is out of range"
	branchNameRequiredMessageConstant        = "branch name must not be empty"
	branchAlreadyPresentMessageConstant      = "branch is already configured"
	branchIndexOutOfRangeMessageConstant     = "branch selection is out of range"
	rootDirectoryRequiredMessageConstant     = "root directory must not be empty"
	rootDirectoryMissingTemplateConstant     = "root directory %s does not exist"
	rootDirectoryNotADirectoryTemplate       = "root path %s is not a directory"
	rootDirectoryCreateErrorTemplateConstant = "unable to create root directory %s: %w"
	rootDirectoryPermissionsConstant         = 0o755
)

// ErrRepositoryNameRequired indicates an add was attempted with an empty repository name.
var ErrRepositoryNameRequired = errors.New(repositoryNameRequiredMessageConstant)

// ErrRepositoryAlreadyConfigured indicates the repository name is already in the list.
var ErrRepositoryAlreadyConfigured = errors.New(repositoryAlreadyPresentMessageConstant)

// ErrRepositoryIndexOutOfRange indicates a removal position outside the configured list.
var ErrRepositoryIndexOutOfRange = errors.New(repositoryIndexOutOfRangeMessageConstant)

// ErrBranchNameRequired indicates an add was attempted with an empty branch name.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrBranchAlreadyConfigured indicates the branch name is already in the allow-list.
var ErrBranchAlreadyConfigured = errors.New(branchAlreadyPresentMessageConstant)

// ErrBranchIndexOutOfRange indicates a removal position outside the allow-list.
var ErrBranchIndexOutOfRange = errors.New(branchIndexOutOfRangeMessageConstant)

// ErrRootDirectoryRequired indicates a root update was attempted with an empty path.
var ErrRootDirectoryRequired = errors.New(rootDirectoryRequiredMessageConstant)

// AddRepository appends a repository name to the processing list and persists the record.
func (store *Store) AddRepository(repositoryName string) error {
	trimmedName := strings.TrimSpace(repositoryName)
	if len(trimmedName) == 0 {
		return ErrRepositoryNameRequired
	}
	for _, configuredName := range store.current.Repositories {
		if configuredName == trimmedName {
			return ErrRepositoryAlreadyConfigured
		}
	}

	updatedRepositories := append(append([]string{}, store.current.Repositories...), trimmedName)
	return store.Save(SettingsUpdate{Repositories: &updatedRepositories})
}

// RemoveRepository removes the repository at the given position and persists the record.
// It returns the removed name.
func (store *Store) RemoveRepository(position int) (string, error) {
	if position < 0 || position >= len(store.current.Repositories) {
		return "", ErrRepositoryIndexOutOfRange
	}

	removedName := store.current.Repositories[position]
	updatedRepositories := append([]string{}, store.current.Repositories[:position]...)
	updatedRepositories = append(updatedRepositories, store.current.Repositories[position+1:]...)
	return removedName, store.Save(SettingsUpdate{Repositories: &updatedRepositories})
}

// AddBranch appends a branch name to the allow-list and persists the record.
func (store *Store) AddBranch(branchName string) error {
	trimmedName := strings.TrimSpace(branchName)
	if len(trimmedName) == 0 {
		return ErrBranchNameRequired
	}
	for _, configuredName := range store.current.Branches {
		if configuredName == trimmedName {
			return ErrBranchAlreadyConfigured
		}
	}

	updatedBranches := append(append([]string{}, store.current.Branches...), trimmedName)
	return store.Save(SettingsUpdate{Branches: &updatedBranches})
}

// RemoveBranch removes the allow-list entry at the given position and persists the record.
// It returns the removed name.
func (store *Store) RemoveBranch(position int) (string, error) {
	if position < 0 || position >= len(store.current.Branches) {
		return "", ErrBranchIndexOutOfRange
	}

	removedName := store.current.Branches[position]
	updatedBranches := append([]string{}, store.current.Branches[:position]...)
	updatedBranches = append(updatedBranches, store.current.Branches[position+1:]...)
	return removedName, store.Save(SettingsUpdate{Branches: &updatedBranches})
}

// SetRootDirectory validates the root path and persists it. When createMissing
// is true a nonexistent directory is created; confirmation policy belongs to callers.
func (store *Store) SetRootDirectory(rootDirectory string, createMissing bool) error {
	trimmedRootDirectory := strings.TrimSpace(rootDirectory)
	if len(trimmedRootDirectory) == 0 {
		return ErrRootDirectoryRequired
	}

	directoryInfo, statError := os.Stat(trimmedRootDirectory)
	switch {
	case statError == nil:
		if !directoryInfo.IsDir() {
			return fmt.Errorf(rootDirectoryNotADirectoryTemplate, trimmedRootDirectory)
		}
	case os.IsNotExist(statError):
		if !createMissing {
			return fmt.Errorf(rootDirectoryMissingTemplateConstant, trimmedRootDirectory)
		}
		if creationError := os.MkdirAll(trimmedRootDirectory, rootDirectoryPermissionsConstant); creationError != nil {
			return fmt.Errorf(rootDirectoryCreateErrorTemplateConstant, trimmedRootDirectory, creationError)
		}
	default:
		return statError
	}

	return store.Save(SettingsUpdate{RootDirectory: &trimmedRootDirectory})
}
