//go:build unix

package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_ExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "planpilot.lock")

	held, err := Acquire(path)
	require.NoError(t, err)

	_, err = TryAcquire(path)
	assert.ErrorIs(t, err, ErrLockBusy)

	require.NoError(t, held.Release())
	require.NoError(t, held.Release())

	again, err := TryAcquire(path)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestRelease_NilLock(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
}
