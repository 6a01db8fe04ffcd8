package schedule_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/turncost/pkg/grid"
	"github.com/Sumatoshi-tech/turncost/pkg/schedule"
)

const plannerOutput = `statistics:
  cost: 9
  makespan: 4
  runtime: 0.00125
  highLevelExpanded: 2
  lowLevelExpanded: 31
schedule:
  agent1:
    - x: 0
      y: 0
      t: 0
    - x: 0
      y: 1
      t: 1
  agent0:
    - x: 5
      y: 5
      t: 0
`

func decodeString(t *testing.T, doc string) (*schedule.Schedule, error) {
	t.Helper()

	return schedule.Decode(strings.NewReader(doc))
}

func requireMalformed(t *testing.T, err error) *schedule.MalformedScheduleError {
	t.Helper()

	require.Error(t, err)
	require.ErrorIs(t, err, schedule.ErrMalformedSchedule)

	var mse *schedule.MalformedScheduleError
	require.ErrorAs(t, err, &mse)

	return mse
}

func TestDecode_PreservesDocumentOrder(t *testing.T) {
	t.Parallel()

	sched, err := decodeString(t, plannerOutput)
	require.NoError(t, err)
	require.Len(t, sched.Agents, 2)

	assert.Equal(t, "agent1", sched.Agents[0].ID)
	assert.Equal(t, schedule.Path{{X: 0, Y: 0}, {X: 0, Y: 1}}, sched.Agents[0].Path)
	assert.Equal(t, "agent0", sched.Agents[1].ID)
	assert.Equal(t, schedule.Path{{X: 5, Y: 5}}, sched.Agents[1].Path)
}

func TestDecode_Statistics(t *testing.T) {
	t.Parallel()

	sched, err := decodeString(t, plannerOutput)
	require.NoError(t, err)
	require.NotNil(t, sched.Stats)

	assert.Equal(t, 9, sched.Stats.Cost)
	assert.Equal(t, 4, sched.Stats.Makespan)
	assert.InDelta(t, 0.00125, sched.Stats.Runtime, 1e-9)
	assert.Equal(t, 2, sched.Stats.HighLevelExpanded)
	assert.Equal(t, 31, sched.Stats.LowLevelExpanded)
}

func TestDecode_NonStringAgentKeys(t *testing.T) {
	t.Parallel()

	sched, err := decodeString(t, "schedule:\n  7: [{x: 1, y: 1}]\n  3: [{x: 2, y: 2}]\n")
	require.NoError(t, err)
	require.Len(t, sched.Agents, 2)

	assert.Equal(t, "7", sched.Agents[0].ID)
	assert.Equal(t, "3", sched.Agents[1].ID)
}

func TestDecode_EmptyScheduleMapping(t *testing.T) {
	t.Parallel()

	sched, err := decodeString(t, "schedule: {}\n")
	require.NoError(t, err)
	assert.Empty(t, sched.Agents)
	assert.Nil(t, sched.Stats)
}

func TestDecode_DisconnectedPathIsAccepted(t *testing.T) {
	t.Parallel()

	sched, err := decodeString(t, "schedule:\n  a: [{x: 0, y: 0}, {x: 9, y: 9}]\n")
	require.NoError(t, err)
	assert.Equal(t, schedule.Path{{X: 0, Y: 0}, {X: 9, Y: 9}}, sched.Agents[0].Path)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		doc    string
		agent  string
		step   int
		reason string
	}{
		{name: "empty", doc: "", step: -1, reason: "empty document"},
		{name: "not_mapping", doc: "- 1\n- 2\n", step: -1, reason: "not a mapping"},
		{name: "missing_schedule", doc: "statistics: {cost: 1}\n", step: -1, reason: "missing \"schedule\""},
		{name: "null_schedule", doc: "schedule:\n", step: -1, reason: "not a mapping of agents"},
		{name: "empty_path", doc: "schedule:\n  a: []\n", agent: "a", step: -1, reason: "empty path"},
		{name: "path_not_sequence", doc: "schedule:\n  a: {x: 1}\n", agent: "a", step: -1, reason: "not a sequence"},
		{name: "missing_x", doc: "schedule:\n  a: [{x: 0, y: 0}, {y: 1}]\n", agent: "a", step: 1, reason: "missing \"x\""},
		{name: "missing_y", doc: "schedule:\n  a: [{x: 0}]\n", agent: "a", step: 0, reason: "missing \"y\""},
		{name: "non_integer", doc: "schedule:\n  a: [{x: 0.5, y: 0}]\n", agent: "a", step: 0, reason: "not an integer"},
		{name: "null_coordinate", doc: "schedule:\n  a: [{x: ~, y: 0}]\n", agent: "a", step: 0, reason: "not an integer"},
		{name: "position_scalar", doc: "schedule:\n  a: [3]\n", agent: "a", step: 0, reason: "position is not a mapping"},
		{name: "duplicate_agent", doc: "schedule:\n  a: [{x: 0, y: 0}]\n  a: [{x: 0, y: 0}]\n", agent: "a", step: -1, reason: "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeString(t, tt.doc)
			mse := requireMalformed(t, err)

			assert.Equal(t, tt.agent, mse.Agent)
			assert.Equal(t, tt.step, mse.Step)
			assert.Contains(t, mse.Error(), tt.reason)
		})
	}
}

func TestDecode_InvalidYAMLWrapsCause(t *testing.T) {
	t.Parallel()

	_, err := decodeString(t, "schedule: [unterminated\n")
	mse := requireMalformed(t, err)

	require.Error(t, errors.Unwrap(mse))
	assert.Contains(t, mse.Error(), "invalid yaml")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(plannerOutput), 0o600))

	sched, err := schedule.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, grid.Position{X: 5, Y: 5}, sched.Agents[1].Path[0])
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := schedule.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, schedule.ErrMalformedSchedule)
}
