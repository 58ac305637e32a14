package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsageInitializesMaps(t *testing.T) {
	u := NewUsage("descriptor-pool-tuning")
	assert.Equal(t, "descriptor-pool-tuning", u.Name)
	assert.NotNil(t, u.StringProps)
	assert.NotNil(t, u.IntProps)
	assert.NotNil(t, u.BoolProps)
	assert.NotNil(t, u.FloatProps)
	assert.False(t, u.HasNext())
}

func TestUsageNextWithoutLinkReturnsError(t *testing.T) {
	u := NewUsage("root")
	_, err := u.Next()
	assert.Error(t, err)
}

func TestUsageNextFollowsLink(t *testing.T) {
	child := NewUsage("child")
	parent := NewUsage("parent")
	parent.LinkedUsage = child

	assert.True(t, parent.HasNext())
	got, err := parent.Next()
	require.NoError(t, err)
	assert.Same(t, child, got)
}
