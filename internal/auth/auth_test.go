package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	g := NewGuard(42)

	assert.True(t, g.IsAdmin(42))
	assert.False(t, g.IsAdmin(43))
	assert.False(t, g.IsAdmin(0))
	assert.False(t, g.IsAdmin(-42))
}
