package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, CommitHash, info.CommitHash)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestString(t *testing.T) {
	info := Info{Version: "1.2.3", CommitHash: "abc1234", BuildTime: "2026-08-25"}
	s := info.String()
	assert.True(t, strings.HasPrefix(s, "sparq 1.2.3"))
	assert.Contains(t, s, "abc1234")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc1234", Info{CommitHash: "abc1234def5678"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestSemver(t *testing.T) {
	v, err := Info{Version: "1.2.3"}.Semver()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Major())

	_, err = Info{Version: "dev"}.Semver()
	assert.Error(t, err)
}

func TestSatisfies(t *testing.T) {
	ok, err := Info{Version: "1.2.3"}.Satisfies(">= 1.2.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Info{Version: "1.1.0"}.Satisfies(">= 1.2.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Info{Version: "dev"}.Satisfies(">= 1.0.0")
	assert.Error(t, err)
}
