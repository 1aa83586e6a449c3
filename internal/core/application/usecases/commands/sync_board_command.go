package commands

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var ErrSyncBoardCommandIsNotConstructed = errors.New(
	"SyncBoardCommand must be created via NewSyncBoardCommand constructor",
)

// SyncBoardCommand re-reads the open orders and every order already on the
// board. It is the fallback for a push channel that is down.
type SyncBoardCommand struct {
	guard guard.ConstructorGuard
}

// NewSyncBoardCommand creates a parameterless sync command.
func NewSyncBoardCommand() SyncBoardCommand {
	return SyncBoardCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c SyncBoardCommand) Validate() error {
	return c.guard.Validate(ErrSyncBoardCommandIsNotConstructed)
}
