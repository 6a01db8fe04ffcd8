// Package report reads and writes the plain-text result files and the comparison report.
//
// A result file holds the schedule total on its first line followed by one line per agent:
//
//	turnCount=3
//	Agent 0 turnCount=1
//	Agent 1 turnCount=2
//
// A comparison report holds one line per scenario present in both batches.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/turncost/pkg/turns"
)

const (
	totalKey    = "turnCount"
	agentPrefix = "Agent "
	keySep      = "="

	rowFormat = "%s        original=%d    changed=%d        compared=%d\n"
)

// ErrMalformedResult is matched by every [MalformedResultError].
var ErrMalformedResult = errors.New("malformed result")

// MalformedResultError reports a result file line that does not have the expected shape.
type MalformedResultError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("%s: line %d %q: %s", ErrMalformedResult, e.Line, e.Text, e.Reason)
}

// Is reports whether target is [ErrMalformedResult].
func (e *MalformedResultError) Is(target error) bool {
	return target == ErrMalformedResult
}

// WriteResult writes res in result file format.
func WriteResult(w io.Writer, res turns.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s%s%d\n", totalKey, keySep, res.Total)

	for _, agent := range res.Agents {
		fmt.Fprintf(bw, "%s%d %s%s%d\n", agentPrefix, agent.Index, totalKey, keySep, agent.Turns)
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

// WriteResultFile creates (or truncates) path and writes res into it.
func WriteResultFile(path string, res turns.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close result file: %w", closeErr)
		}
	}()

	return WriteResult(f, res)
}

// ParseTotal parses a "key=integer" line and returns the integer.
func ParseTotal(line string) (int, error) {
	text := strings.TrimSpace(line)

	key, value, ok := strings.Cut(text, keySep)
	if !ok {
		return 0, &MalformedResultError{Line: 1, Text: text, Reason: "missing \"=\""}
	}

	if strings.TrimSpace(key) == "" {
		return 0, &MalformedResultError{Line: 1, Text: text, Reason: "empty key"}
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &MalformedResultError{Line: 1, Text: text, Reason: "value is not an integer"}
	}

	return n, nil
}

// ReadTotal reads the first line of r and returns the total it carries.
func ReadTotal(r io.Reader) (int, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read result: %w", err)
	}

	if line == "" {
		return 0, &MalformedResultError{Line: 1, Reason: "empty file"}
	}

	return ParseTotal(line)
}

// ReadTotalFile opens path and returns the total from its first line.
func ReadTotalFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open result file: %w", err)
	}
	defer f.Close()

	return ReadTotal(f)
}

// ReadResult parses a complete result file. Agent ids are not stored in result files,
// so the returned agents only carry their index and count.
func ReadResult(r io.Reader) (turns.Result, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return turns.Result{}, fmt.Errorf("read result: %w", err)
		}

		return turns.Result{}, &MalformedResultError{Line: 1, Reason: "empty file"}
	}

	total, err := ParseTotal(scanner.Text())
	if err != nil {
		return turns.Result{}, err
	}

	res := turns.Result{Total: total}

	for lineNo := 2; scanner.Scan(); lineNo++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		agent, parseErr := parseAgentLine(text)
		if parseErr != nil {
			parseErr.Line = lineNo

			return turns.Result{}, parseErr
		}

		res.Agents = append(res.Agents, agent)
	}

	if err := scanner.Err(); err != nil {
		return turns.Result{}, fmt.Errorf("read result: %w", err)
	}

	return res, nil
}

// ReadResultFile opens path and parses it with [ReadResult].
func ReadResultFile(path string) (turns.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return turns.Result{}, fmt.Errorf("open result file: %w", err)
	}
	defer f.Close()

	return ReadResult(f)
}

func parseAgentLine(text string) (turns.AgentTurns, *MalformedResultError) {
	rest, ok := strings.CutPrefix(text, agentPrefix)
	if !ok {
		return turns.AgentTurns{}, &MalformedResultError{Text: text, Reason: "expected agent line"}
	}

	indexText, countText, ok := strings.Cut(rest, " ")
	if !ok {
		return turns.AgentTurns{}, &MalformedResultError{Text: text, Reason: "missing agent count"}
	}

	index, err := strconv.Atoi(indexText)
	if err != nil {
		return turns.AgentTurns{}, &MalformedResultError{Text: text, Reason: "agent index is not an integer"}
	}

	_, value, ok := strings.Cut(countText, keySep)
	if !ok {
		return turns.AgentTurns{}, &MalformedResultError{Text: text, Reason: "missing \"=\""}
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return turns.AgentTurns{}, &MalformedResultError{Text: text, Reason: "agent count is not an integer"}
	}

	return turns.AgentTurns{Index: index, Turns: count}, nil
}

// Row is one line of the comparison report.
type Row struct {
	Name     string `json:"name"`
	Original int    `json:"original"`
	Changed  int    `json:"changed"`
	Delta    int    `json:"compared"`
}

// NewRow builds a row with Delta = original - changed.
func NewRow(name string, original, changed int) Row {
	return Row{Name: name, Original: original, Changed: changed, Delta: original - changed}
}

// FormatRow renders a row as a report line, including the trailing newline.
func FormatRow(row Row) string {
	return fmt.Sprintf(rowFormat, row.Name, row.Original, row.Changed, row.Delta)
}

// WriteReport writes rows in report format with no header or trailer.
func WriteReport(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)

	for _, row := range rows {
		_, err := bw.WriteString(FormatRow(row))
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// WriteReportFile creates (or truncates) path and writes rows into it.
func WriteReportFile(path string, rows []Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close report file: %w", closeErr)
		}
	}()

	return WriteReport(f, rows)
}
