package buildmode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameMatchesDebugFlag(t *testing.T) {
	if Debug {
		assert.Equal(t, "debug", Name())
	} else {
		assert.Equal(t, "release", Name())
	}
	assert.Equal(t, Debug, DevToolsEnabled())
}
