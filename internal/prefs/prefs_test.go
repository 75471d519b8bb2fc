package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryFlags(t *testing.T) {
	t.Parallel()

	f := NewMemory()

	v, err := f.Flag("unknown")
	require.NoError(t, err)
	require.False(t, v)

	require.NoError(t, f.SetFlag(SMSOptInKey(1), true))
	v, err = f.Flag(SMSOptInKey(1))
	require.NoError(t, err)
	require.True(t, v)
}

func TestFileFlagsPersistAcrossLoads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "flags.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetFlag(SMSOptInKey(7), true))
	require.NoError(t, f.SetFlag("other", false))

	reloaded, err := NewFile(path)
	require.NoError(t, err)

	v, err := reloaded.Flag(SMSOptInKey(7))
	require.NoError(t, err)
	require.True(t, v)

	v, err = reloaded.Flag("other")
	require.NoError(t, err)
	require.False(t, v)

	v, err = reloaded.Flag("never-set")
	require.NoError(t, err)
	require.False(t, v)
}
