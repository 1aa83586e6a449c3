package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand(t *testing.T) {
	t.Run("should build a valid command", func(t *testing.T) {
		cmd, err := commands.NewUpdateOrderStatusCommand(orderID(t, 3), order.Kitchen, order.Accepted, staleCreds)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, int64(3), cmd.OrderID().Int64())
		assert.Equal(t, order.Kitchen, cmd.Role())
		assert.Equal(t, order.Accepted, cmd.Target())
		assert.Equal(t, staleCreds, cmd.Credentials())
	})

	t.Run("should join every invalid field", func(t *testing.T) {
		_, err := commands.NewUpdateOrderStatusCommand(kernel.OrderID{}, order.UnknownRole, order.Unknown, ports.Credentials{})

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrOrderIDIsNotPersisted)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, order.ErrUnknownStatus)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject zero value command", func(t *testing.T) {
		var cmd commands.UpdateOrderStatusCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrUpdateOrderStatusCommandIsNotConstructed)
	})
}
