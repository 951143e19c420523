package main

import (
	"errors"

	"github.com/aretw0/jotter/pkg/core"
)

// Exit codes.
const (
	exitOK       = 0
	exitInternal = 1
	exitInput    = 2
	exitNotFound = 3
)

// exitCode maps an error onto the process exit status.
func exitCode(err error) int {
	switch core.Kind(err) {
	case core.KindNone:
		return exitOK
	case core.KindInvalidID, core.KindValidation:
		return exitInput
	case core.KindNotFound:
		return exitNotFound
	default:
		return exitInternal
	}
}

// errorMessage returns the text shown to the user. Store failures are reduced
// to a short message; their details only reach the log.
func errorMessage(err error) string {
	if core.Kind(err) != core.KindStore || errors.Is(err, core.ErrStore) || errors.Is(err, core.ErrReadOnly) {
		return core.Message(err)
	}
	// Usage and configuration errors come from the command line itself.
	return err.Error()
}
