// Package utils hosts shared plumbing for the CLI: configuration loading,
// logger construction, and output writers.
package utils
