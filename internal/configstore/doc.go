// Package configstore persists the durable repoup settings record.
//
// It exposes Store for self-healing loads and full-overwrite saves of the
// settings file, plus the list-mutation helpers the presentation layer calls.
package configstore
