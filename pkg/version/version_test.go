package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	oldVersion, oldCommit, oldBuildTime := Version, Commit, BuildTime
	Version, Commit, BuildTime = version, commit, buildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = oldVersion, oldCommit, oldBuildTime
	})
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name                     string
		version, commit, builtAt string
		want                     string
	}{
		{"development", devVersion, "", "", "0.0.0-dev (development)"},
		{"commit only", "1.2.3", "abc1234", "", "1.2.3 (commit: abc1234)"},
		{"build time only", "1.2.3", "", "2025-01-31T09:00:00Z", "1.2.3 (built at: 2025-01-31T09:00:00Z)"},
		{"full", "1.2.3", "abc1234", "2025-01-31T09:00:00Z", "1.2.3 (commit: abc1234, built at: 2025-01-31T09:00:00Z)"},
		{"empty version", "", "", "", "0.0.0-dev (development)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version, tt.commit, tt.builtAt)
			assert.Equal(t, tt.want, FormatVersion())
		})
	}
}

func TestApplyBuildInfo(t *testing.T) {
	withVersion(t, devVersion, "", "")

	applyBuildInfo(&debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2025-01-31T10:00:00+01:00"},
		{Key: "vcs.tag", Value: "v1.4.0"},
		{Key: "vcs.modified", Value: "true"},
	}})

	assert.Equal(t, "1.4.0-dirty", Version)
	assert.Equal(t, "0123456", Commit)
	assert.Equal(t, "2025-01-31T09:00:00Z", BuildTime)
}

func TestApplyBuildInfo_LdflagsWin(t *testing.T) {
	withVersion(t, "2.0.0", "", "")

	applyBuildInfo(&debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
	}})

	assert.Equal(t, "2.0.0", Version)
	assert.Empty(t, Commit)
}

func TestApplyBuildInfo_ModuleVersion(t *testing.T) {
	withVersion(t, devVersion, "", "")

	applyBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "v1.5.1"}})
	assert.Equal(t, "1.5.1", Version)
}
