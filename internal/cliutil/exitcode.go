package cliutil

import (
	"errors"

	"github.com/arkanvault/vaultgraph/internal/facade"
)

// Exit codes for the vaultgraph CLI.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitNotFound = 2
)

// ExitCodeFor maps a Facade error to the process exit code a command
// should return for it. A nil error exits 0.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var fe *facade.Error
	if errors.As(err, &fe) {
		switch fe.Kind {
		case facade.KindVaultNotFound, facade.KindNoteNotFound:
			return ExitNotFound
		}
	}
	return ExitFailure
}
