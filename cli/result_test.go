package cli

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("ExitCode", func(t *testing.T) {
		err := NewCommandError(2)
		assert.Equal(t, 2, err.ExitCode())
		assert.Equal(t, "command failed", err.Error())
	})

	t.Run("MatchesWithErrorsAs", func(t *testing.T) {
		var err error = NewCommandError(1)

		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, 1, cmdErr.ExitCode())
	})
}
