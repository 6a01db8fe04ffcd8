// Package schedule decodes planner schedule documents into ordered per-agent paths.
package schedule

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/turncost/pkg/grid"
)

// Document keys and the scalar tags coordinates are checked against.
const (
	keySchedule   = "schedule"
	keyStatistics = "statistics"
	keyX          = "x"
	keyY          = "y"

	tagInt  = "!!int"
	tagNull = "!!null"
)

// ErrMalformedSchedule is matched by every [MalformedScheduleError].
var ErrMalformedSchedule = errors.New("malformed schedule")

// MalformedScheduleError describes why a schedule document was rejected.
// Agent and Step are set when the problem is local to one path (Step is -1 otherwise).
type MalformedScheduleError struct {
	Agent  string
	Step   int
	Reason string
	Err    error
}

func (e *MalformedScheduleError) Error() string {
	msg := ErrMalformedSchedule.Error()

	switch {
	case e.Agent != "" && e.Step >= 0:
		msg += fmt.Sprintf(": agent %q step %d", e.Agent, e.Step)
	case e.Agent != "":
		msg += fmt.Sprintf(": agent %q", e.Agent)
	}

	msg += ": " + e.Reason

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Is reports whether target is [ErrMalformedSchedule].
func (e *MalformedScheduleError) Is(target error) bool {
	return target == ErrMalformedSchedule
}

// Unwrap returns the underlying decode error, if any.
func (e *MalformedScheduleError) Unwrap() error {
	return e.Err
}

func malformed(reason string) *MalformedScheduleError {
	return &MalformedScheduleError{Step: -1, Reason: reason}
}

// Path is one agent's positions in step order.
type Path []grid.Position

// Agent is a single entry of the schedule mapping.
type Agent struct {
	ID   string `json:"id"`
	Path Path   `json:"path"`
}

// Statistics is the optional search summary the planner writes next to the schedule.
type Statistics struct {
	Cost              int     `json:"cost"                yaml:"cost"`
	Makespan          int     `json:"makespan"            yaml:"makespan"`
	Runtime           float64 `json:"runtime"             yaml:"runtime"`
	HighLevelExpanded int     `json:"high_level_expanded" yaml:"highLevelExpanded"`
	LowLevelExpanded  int     `json:"low_level_expanded"  yaml:"lowLevelExpanded"`
}

// Schedule is a decoded planner output. Agents keep the order of the source document.
type Schedule struct {
	Agents []Agent     `json:"agents"`
	Stats  *Statistics `json:"statistics,omitempty"`
}

// LoadFile reads and decodes the schedule stored at path.
func LoadFile(path string) (*Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a single YAML document from r.
func Decode(r io.Reader) (*Schedule, error) {
	var doc yaml.Node

	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil, malformed("empty document")
	}

	if err != nil {
		return nil, &MalformedScheduleError{Step: -1, Reason: "invalid yaml", Err: err}
	}

	return FromNode(&doc)
}

// FromNode builds a schedule from an already parsed YAML document.
func FromNode(doc *yaml.Node) (*Schedule, error) {
	root := resolve(doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, malformed("empty document")
		}

		root = resolve(root.Content[0])
	}

	if root.Kind != yaml.MappingNode {
		return nil, malformed("document is not a mapping")
	}

	schedNode := lookup(root, keySchedule)
	if schedNode == nil {
		return nil, malformed("missing \"schedule\" key")
	}

	sched := &Schedule{}

	agents, err := decodeAgents(schedNode)
	if err != nil {
		return nil, err
	}

	sched.Agents = agents

	if statsNode := lookup(root, keyStatistics); statsNode != nil && !isNull(statsNode) {
		var stats Statistics

		decodeErr := statsNode.Decode(&stats)
		if decodeErr != nil {
			return nil, &MalformedScheduleError{Step: -1, Reason: "invalid statistics", Err: decodeErr}
		}

		sched.Stats = &stats
	}

	return sched, nil
}

func decodeAgents(node *yaml.Node) ([]Agent, error) {
	if node.Kind != yaml.MappingNode {
		return nil, malformed("\"schedule\" is not a mapping of agents")
	}

	agents := make([]Agent, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		id := node.Content[i].Value

		if _, dup := seen[id]; dup {
			return nil, &MalformedScheduleError{Agent: id, Step: -1, Reason: "duplicate agent"}
		}

		seen[id] = struct{}{}

		path, err := decodePath(id, resolve(node.Content[i+1]))
		if err != nil {
			return nil, err
		}

		agents = append(agents, Agent{ID: id, Path: path})
	}

	return agents, nil
}

func decodePath(agent string, node *yaml.Node) (Path, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &MalformedScheduleError{Agent: agent, Step: -1, Reason: "path is not a sequence"}
	}

	if len(node.Content) == 0 {
		return nil, &MalformedScheduleError{Agent: agent, Step: -1, Reason: "empty path"}
	}

	path := make(Path, 0, len(node.Content))

	for step, item := range node.Content {
		pos, err := decodePosition(resolve(item))
		if err != nil {
			err.Agent = agent
			err.Step = step

			return nil, err
		}

		path = append(path, pos)
	}

	return path, nil
}

func decodePosition(node *yaml.Node) (grid.Position, *MalformedScheduleError) {
	if node.Kind != yaml.MappingNode {
		return grid.Position{}, malformed("position is not a mapping")
	}

	x, err := intField(node, keyX)
	if err != nil {
		return grid.Position{}, err
	}

	y, err := intField(node, keyY)
	if err != nil {
		return grid.Position{}, err
	}

	return grid.Position{X: x, Y: y}, nil
}

func intField(node *yaml.Node, key string) (int, *MalformedScheduleError) {
	value := lookup(node, key)
	if value == nil {
		return 0, malformed(fmt.Sprintf("missing %q", key))
	}

	if value.Kind != yaml.ScalarNode || value.ShortTag() != tagInt {
		return 0, malformed(fmt.Sprintf("%q is not an integer", key))
	}

	var n int

	err := value.Decode(&n)
	if err != nil {
		return 0, &MalformedScheduleError{Step: -1, Reason: fmt.Sprintf("%q is not an integer", key), Err: err}
	}

	return n, nil
}

// lookup returns the value bound to key in a mapping node, or nil.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return resolve(mapping.Content[i+1])
		}
	}

	return nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == tagNull
}
