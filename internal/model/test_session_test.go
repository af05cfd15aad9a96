package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatusTerminal(t *testing.T) {
	assert.False(t, SessionInProgress.Terminal())
	assert.True(t, SessionCompleted.Terminal())
	assert.True(t, SessionCancelled.Terminal())
	assert.True(t, SessionStatus("").Terminal())
}
