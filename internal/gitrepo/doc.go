// Package gitrepo contains helpers for interrogating and manipulating Git working copies.
//
// It exposes RepositoryManager, a thin gateway over the git executable used by
// the update engine to query branches and perform checkout and pull operations.
package gitrepo
