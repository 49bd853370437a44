package logging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute_PerSinkLevels(t *testing.T) {
	console := &recordingSink{kind: SinkConsole, level: LevelDebug}
	file := &recordingSink{kind: SinkFile, level: LevelInfo}
	sinks := []Sink{console, file}

	require.NoError(t, Route(&Record{Level: LevelWarn, Message: "warned"}, sinks))
	require.NoError(t, Route(&Record{Level: LevelDebug, Message: "debugged"}, sinks))

	assert.Equal(t, []Level{LevelWarn, LevelDebug}, console.Levels())
	assert.Equal(t, []Level{LevelWarn}, file.Levels())
}

func TestRoute_SilentSinkAcceptsNothing(t *testing.T) {
	silent := &recordingSink{kind: SinkFile, level: LevelSilent}
	require.NoError(t, Route(&Record{Level: LevelError}, []Sink{silent, nil}))
	assert.Empty(t, silent.Levels())
}

func TestRoute_FailingSinkDoesNotStopOthers(t *testing.T) {
	broken := &recordingSink{kind: SinkFile, level: LevelSilly, fail: errors.New("disk full")}
	console := &recordingSink{kind: SinkConsole, level: LevelSilly}

	err := Route(&Record{Level: LevelInfo}, []Sink{broken, console})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, console.Levels(), 1)
}

func TestRouter_AddWhileRouting(t *testing.T) {
	r := NewRouter(&recordingSink{kind: SinkConsole, level: LevelDebug}, nil)
	require.Len(t, r.Sinks(), 1)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Add(&recordingSink{kind: SinkWriter, level: LevelInfo})
		}()
		go func() {
			defer wg.Done()
			_ = r.Route(&Record{Level: LevelInfo})
		}()
	}
	wg.Wait()

	assert.Len(t, r.Sinks(), n+1)
}

func TestRouter_Enabled(t *testing.T) {
	r := NewRouter(&recordingSink{kind: SinkConsole, level: LevelWarn})
	assert.True(t, r.Enabled(LevelError))
	assert.False(t, r.Enabled(LevelInfo))

	r.Add(&recordingSink{kind: SinkFile, level: LevelVerbose})
	assert.True(t, r.Enabled(LevelInfo))
	assert.False(t, r.Enabled(LevelDebug))

	var nilRouter *Router
	assert.False(t, nilRouter.Enabled(LevelError))
	assert.NoError(t, nilRouter.Route(&Record{}))
}

func TestRouter_Close(t *testing.T) {
	ok := &recordingSink{kind: SinkConsole, level: LevelInfo}
	broken := &recordingSink{kind: SinkFile, level: LevelInfo, fail: errors.New("close failed")}
	r := NewRouter(ok, broken)

	err := r.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
	assert.Empty(t, r.Sinks())
	assert.NoError(t, r.Close())
}
