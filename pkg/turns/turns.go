// Package turns counts direction changes along agent paths and aggregates them per schedule.
package turns

import (
	"github.com/Sumatoshi-tech/turncost/pkg/grid"
	"github.com/Sumatoshi-tech/turncost/pkg/schedule"
)

// Directions returns the heading of every step of path, one entry per consecutive pair.
func Directions(path schedule.Path) []grid.Direction {
	if len(path) < 2 {
		return nil
	}

	dirs := make([]grid.Direction, 0, len(path)-1)

	for i := 1; i < len(path); i++ {
		dirs = append(dirs, grid.Step(path[i-1], path[i]))
	}

	return dirs
}

// Count returns the number of adjacent steps whose directions differ.
// Undefined is compared like any other direction: two undefined steps in a row
// are not a turn, an undefined step next to a real move is.
func Count(path schedule.Path) int {
	var (
		turns   int
		prev    grid.Direction
		hasPrev bool
	)

	for i := 1; i < len(path); i++ {
		dir := grid.Step(path[i-1], path[i])

		if hasPrev && dir != prev {
			turns++
		}

		prev = dir
		hasPrev = true
	}

	return turns
}

// AgentTurns is the turn count of one agent. Index is its position in the schedule,
// independent of the agent identifier.
type AgentTurns struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Turns int    `json:"turns"`
}

// Result is the turn summary of one schedule.
type Result struct {
	Total  int          `json:"total"`
	Agents []AgentTurns `json:"agents"`
}

// Aggregate counts turns for every agent in schedule order.
func Aggregate(sched *schedule.Schedule) Result {
	res := Result{Agents: make([]AgentTurns, 0, len(sched.Agents))}

	for idx, agent := range sched.Agents {
		n := Count(agent.Path)

		res.Agents = append(res.Agents, AgentTurns{Index: idx, ID: agent.ID, Turns: n})
		res.Total += n
	}

	return res
}
