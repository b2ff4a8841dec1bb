package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInfo(t *testing.T) {
	Version = "v0.1.0"
	info := BuildInfo()
	assert.Contains(t, info, "v0.1.0")
	assert.Contains(t, info, GitCommit)
	assert.Contains(t, info, "OS/Arch:")
}
