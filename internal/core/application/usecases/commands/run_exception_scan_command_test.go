package commands_test

import (
	"testing"

	"logistics/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunExceptionScanCommand(t *testing.T) {
	t.Run("should create a valid command", func(t *testing.T) {
		cmd, err := commands.NewRunExceptionScanCommand(commands.TriggerManual)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, commands.TriggerManual, cmd.Trigger())
	})

	t.Run("should reject an unknown trigger", func(t *testing.T) {
		_, err := commands.NewRunExceptionScanCommand("cron")
		require.ErrorIs(t, err, commands.ErrUnknownTrigger)
	})

	t.Run("should reject a zero value command", func(t *testing.T) {
		var cmd commands.RunExceptionScanCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrRunExceptionScanCommandIsNotConstructed)
	})
}
