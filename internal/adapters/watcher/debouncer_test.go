package watcher_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buckle/internal/adapters/watcher"
)

func TestNewDebouncer(t *testing.T) {
	tests := []struct {
		name     string
		window   time.Duration
		callback func([]string)
	}{
		{
			name:     "with callback",
			window:   100 * time.Millisecond,
			callback: func([]string) {},
		},
		{
			name:     "with nil callback",
			window:   50 * time.Millisecond,
			callback: nil,
		},
		{
			name:     "with zero window",
			window:   0,
			callback: func([]string) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := watcher.NewDebouncer(tt.window, tt.callback)
			require.NotNil(t, d)
		})
	}
}

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/buckle.yaml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/project/buckle.yaml"}, receivedPaths)
	})
}

func TestDebouncer_Add_MultiplePathsCoalesced(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/buckle.project.yaml")
		d.Add("/project/buckle.yaml")
		d.Add("/project/buckle.project.yaml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/project/buckle.project.yaml", "/project/buckle.yaml"}, receivedPaths)
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/project/buckle.yaml")
		time.Sleep(80 * time.Millisecond)
		d.Add("/project/buckle.yaml")
		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 0, callCount, "window restarts on every add")

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var receivedPaths []string

		d := watcher.NewDebouncer(time.Hour, func(paths []string) {
			receivedPaths = paths
		})

		d.Add("/project/buckle.yaml")
		d.Flush()

		assert.Equal(t, []string{"/project/buckle.yaml"}, receivedPaths)
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			callCount++
		})

		d.Flush()

		assert.Equal(t, 0, callCount)
	})
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/project/buckle.yaml")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		d.Flush()

		assert.Equal(t, 1, callCount, "flush after the window fired must not run the callback again")
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(100*time.Millisecond, nil)

		d.Add("/project/buckle.yaml")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		d.Add("/project/buckle.yaml")
		d.Flush()
	})
}

func TestDebouncer_Add_AfterFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var batches [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			batches = append(batches, paths)
		})

		d.Add("/project/buckle.yaml")
		d.Flush()

		d.Add("/project/buckle.project.yaml")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, batches, 2)
		assert.Equal(t, []string{"/project/buckle.yaml"}, batches[0])
		assert.Equal(t, []string{"/project/buckle.project.yaml"}, batches[1])
	})
}
