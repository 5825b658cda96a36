package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
	assert.NotEmpty(t, GetVersion())
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.Platform, runtime.GOOS)
	assert.Contains(t, info.Platform, runtime.GOARCH)
}

func TestGetVersionString(t *testing.T) {
	origCommit := GitCommit
	defer func() { GitCommit = origCommit }()

	GitCommit = "unknown"
	assert.Equal(t, "EmailCat "+Version, GetVersionString())

	GitCommit = "abcdef0123456789"
	s := GetVersionString()
	assert.Contains(t, s, "abcdef01")
	assert.NotContains(t, s, "abcdef0123456789")
}

func TestGetDetailedVersionString(t *testing.T) {
	s := GetDetailedVersionString()

	assert.True(t, strings.HasPrefix(s, "EmailCat "))
	assert.Contains(t, s, "Git commit:")
	assert.Contains(t, s, "Go version:")
	assert.Contains(t, s, "Platform:")
}

func TestIsRelease(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	GitCommit = "unknown"
	assert.False(t, IsRelease())
	assert.True(t, IsDevelopment())

	GitCommit = "abc123"
	Version = "1.0.0"
	assert.True(t, IsRelease())

	Version = "1.0.0-dev"
	assert.False(t, IsRelease())
}
