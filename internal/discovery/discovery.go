// Package discovery locates git working copies beneath a root directory.
package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
)

const gitMetadataDirectoryNameConstant = ".git"

// FilesystemRepositoryDiscoverer finds repositories by walking the filesystem.
type FilesystemRepositoryDiscoverer struct{}

// NewFilesystemRepositoryDiscoverer constructs a discoverer backed by filepath.WalkDir.
func NewFilesystemRepositoryDiscoverer() *FilesystemRepositoryDiscoverer {
	return &FilesystemRepositoryDiscoverer{}
}

// DiscoverRepositories walks rootDirectory and returns the relative paths of
// every directory containing a .git entry, sorted. The root itself is never
// reported, and .git directories are not descended into.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(rootDirectory string) ([]string, error) {
	var repositoryNames []string

	walkError := filepath.WalkDir(rootDirectory, func(candidatePath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return nil
		}
		if directoryEntry.Name() != gitMetadataDirectoryNameConstant {
			return nil
		}

		repositoryPath := filepath.Dir(candidatePath)
		relativeName, relativeError := filepath.Rel(rootDirectory, repositoryPath)
		if relativeError != nil || relativeName == "." {
			return nil
		}
		repositoryNames = append(repositoryNames, relativeName)

		if directoryEntry.IsDir() {
			return fs.SkipDir
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	sort.Strings(repositoryNames)
	return repositoryNames, nil
}
