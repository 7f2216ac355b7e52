package mem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuntimeAllocate(t *testing.T) {
	var a Runtime

	buf, err := a.Allocate(24, nil)
	require.NoError(t, err)
	require.Len(t, buf, 24)
	for _, b := range buf {
		require.Zero(t, b)
	}

	a.Free(buf) // no-op
}

func TestRuntimeAllocatePassesPlacedThrough(t *testing.T) {
	var a Runtime

	placed := make([]byte, 16)
	got, err := a.Allocate(64, placed)
	require.NoError(t, err)
	require.Same(t, &placed[0], &got[0])
	require.Len(t, got, 16)
}

func TestRuntimeAllocateRejectsBadSize(t *testing.T) {
	var a Runtime

	_, err := a.Allocate(0, nil)
	require.ErrorIs(t, err, ErrBadSize)

	_, err = a.Allocate(-8, nil)
	require.ErrorIs(t, err, ErrBadSize)
}

func TestDefaultAllocator(t *testing.T) {
	buf, err := Default.Allocate(8, nil)
	require.NoError(t, err)
	require.Len(t, buf, 8)
	Default.Free(buf)
}

func TestLockToggleSerializes(t *testing.T) {
	var tog LockToggle
	var wg sync.WaitGroup

	count := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				prior := tog.Disable()
				count++
				tog.Enable(prior)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 8000, count)
}
