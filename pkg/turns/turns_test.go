package turns_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/turncost/pkg/grid"
	"github.com/Sumatoshi-tech/turncost/pkg/schedule"
	"github.com/Sumatoshi-tech/turncost/pkg/turns"
)

func path(coords ...int) schedule.Path {
	p := make(schedule.Path, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		p = append(p, grid.Position{X: coords[i], Y: coords[i+1]})
	}

	return p
}

func TestCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path schedule.Path
		want int
	}{
		{name: "single_position", path: path(4, 4), want: 0},
		{name: "straight_up", path: path(0, 0, 0, 1, 0, 2, 0, 3), want: 0},
		{name: "straight_left", path: path(5, 0, 4, 0, 3, 0), want: 0},
		{name: "up_up_right_up", path: path(0, 0, 0, 1, 0, 2, 1, 2, 1, 3), want: 2},
		{name: "single_jump", path: path(0, 0, 2, 2), want: 0},
		{name: "single_wait", path: path(0, 0, 0, 0), want: 0},
		{name: "two_waits", path: path(0, 0, 0, 0, 0, 0), want: 0},
		{name: "move_then_wait", path: path(0, 0, 1, 0, 1, 0), want: 1},
		{name: "wait_between_moves", path: path(0, 0, 1, 0, 1, 0, 2, 0), want: 2},
		{name: "reversal", path: path(0, 0, 1, 0, 0, 0), want: 1},
		{name: "zigzag", path: path(0, 0, 1, 0, 1, 1, 2, 1, 2, 2), want: 3},
		{name: "jump_then_jump", path: path(0, 0, 3, 3, 6, 6), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, turns.Count(tt.path))
		})
	}
}

func TestCount_NeverDecreasesAsPathGrows(t *testing.T) {
	t.Parallel()

	full := path(0, 0, 0, 1, 1, 1, 1, 1, 1, 2, 0, 2, 0, 1, 5, 5)
	last := 0

	for n := 1; n <= len(full); n++ {
		got := turns.Count(full[:n])
		assert.GreaterOrEqual(t, got, last, "prefix of length %d", n)
		last = got
	}
}

func TestDirections(t *testing.T) {
	t.Parallel()

	got := turns.Directions(path(0, 0, 0, 1, 0, 2, 1, 2, 1, 3))
	assert.Equal(t, []grid.Direction{grid.Up, grid.Up, grid.Right, grid.Up}, got)

	assert.Nil(t, turns.Directions(path(1, 1)))
	assert.Equal(t, []grid.Direction{grid.Undefined}, turns.Directions(path(0, 0, 2, 2)))
}

func TestAggregate_Scenario(t *testing.T) {
	t.Parallel()

	sched := &schedule.Schedule{Agents: []schedule.Agent{
		{ID: "A", Path: path(0, 0, 0, 1, 1, 1)},
		{ID: "B", Path: path(0, 0, 0, 0)},
	}}

	res := turns.Aggregate(sched)

	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []turns.AgentTurns{
		{Index: 0, ID: "A", Turns: 1},
		{Index: 1, ID: "B", Turns: 0},
	}, res.Agents)
}

func TestAggregate_IndexFollowsDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := `schedule:
  agent9:
    - {x: 0, y: 0}
    - {x: 1, y: 0}
    - {x: 1, y: 1}
  agent2:
    - {x: 0, y: 0}
  agent5:
    - {x: 0, y: 0}
    - {x: 0, y: 1}
    - {x: 1, y: 1}
    - {x: 1, y: 2}
`

	sched, err := schedule.Decode(strings.NewReader(doc))
	require.NoError(t, err)

	res := turns.Aggregate(sched)
	require.Len(t, res.Agents, 3)

	sum := 0

	for i, a := range res.Agents {
		assert.Equal(t, i, a.Index)
		sum += a.Turns
	}

	assert.Equal(t, "agent9", res.Agents[0].ID)
	assert.Equal(t, 1, res.Agents[0].Turns)
	assert.Equal(t, "agent5", res.Agents[2].ID)
	assert.Equal(t, 2, res.Agents[2].Turns)
	assert.Equal(t, sum, res.Total)
	assert.Equal(t, 3, res.Total)
}

func TestAggregate_EmptySchedule(t *testing.T) {
	t.Parallel()

	res := turns.Aggregate(&schedule.Schedule{})

	assert.Zero(t, res.Total)
	assert.Empty(t, res.Agents)
}
