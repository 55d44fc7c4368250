package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedMatch(t *testing.T, seed int64) *Replay {
	t.Helper()
	sim := testSim()
	st, err := sim.Reset(colorlessMirror(seed))
	require.NoError(t, err)

	replay := NewReplay("match-1")
	replay.RecordState(st)
	for i := 0; i < 14 && !st.Terminal; i++ {
		sim.Step(st, Pass)
		replay.RecordState(st)
	}
	return replay
}

func TestReplayRecordsClones(t *testing.T) {
	sim := testSim()
	st, err := sim.Reset(colorlessMirror(5))
	require.NoError(t, err)

	replay := NewReplay("m")
	replay.RecordState(st)
	sim.Step(st, Pass)
	sim.Step(st, Pass)

	// Mutating the live state must not reach the snapshot.
	assert.Equal(t, PhaseStart, replay.GetStateAt(0).Phase)
	assert.Equal(t, len(st.Players[0].Hand)-1, len(replay.GetStateAt(0).Players[0].Hand))
}

func TestReplayNavigation(t *testing.T) {
	replay := recordedMatch(t, 5)
	require.GreaterOrEqual(t, replay.Size(), 3)

	replay.Start()
	first := replay.Next()
	require.NotNil(t, first)
	assert.Equal(t, PhaseStart, first.Phase)

	second := replay.Next()
	require.NotNil(t, second)
	assert.Equal(t, PhaseDraw, second.Phase)

	back := replay.Previous()
	require.NotNil(t, back)
	assert.Equal(t, second, back)

	replay.Start()
	assert.Nil(t, replay.Previous())
	assert.Nil(t, replay.GetStateAt(-1))
	assert.Nil(t, replay.GetStateAt(replay.Size()))
}

func TestReplaySaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	replay := recordedMatch(t, 9)

	require.NoError(t, replay.SaveToFile(dir))

	loaded, err := LoadReplayFromFile(dir, "match-1")
	require.NoError(t, err)
	assert.Equal(t, replay.MatchID, loaded.MatchID)
	require.Equal(t, replay.Size(), loaded.Size())
	for i := 0; i < replay.Size(); i++ {
		assert.Equal(t, replay.GetStateAt(i), loaded.GetStateAt(i), "state %d", i)
	}
}

func TestReplayLoadMissingFile(t *testing.T) {
	_, err := LoadReplayFromFile(t.TempDir(), "nope")
	assert.Error(t, err)
}

func TestReplayRecorder(t *testing.T) {
	dir := t.TempDir()
	rr := NewReplayRecorder(nil, dir)

	sim := testSim()
	st, err := sim.Reset(colorlessMirror(3))
	require.NoError(t, err)

	matchID := rr.StartRecording()
	rr.RecordState(matchID, st)
	sim.Step(st, Pass)
	rr.RecordState(matchID, st)

	replay, ok := rr.GetReplay(matchID)
	require.True(t, ok)
	assert.Equal(t, 2, replay.Size())

	require.NoError(t, rr.SaveReplay(matchID))
	_, ok = rr.GetReplay(matchID)
	assert.False(t, ok, "saved replay should leave memory")

	loaded, err := rr.LoadReplay(matchID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Size())

	// Saving twice fails: the replay is gone from memory.
	assert.Error(t, rr.SaveReplay(matchID))

	// Recording against an unknown ID is ignored.
	rr.RecordState("unknown", st)
}
