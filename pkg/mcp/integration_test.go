package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/turncost/pkg/mcp"
	"github.com/Sumatoshi-tech/turncost/pkg/observability"
)

const scenarioYAML = `schedule:
  A:
    - {x: 0, y: 0, t: 0}
    - {x: 0, y: 1, t: 1}
    - {x: 1, y: 1, t: 2}
  B:
    - {x: 0, y: 0, t: 0}
    - {x: 0, y: 0, t: 1}
statistics:
  cost: 5
  makespan: 2
  runtime: 0.01
  highLevelExpanded: 1
  lowLevelExpanded: 9
`

// connect starts srv on an in-memory transport and returns a connected client session.
func connect(t *testing.T, srv *mcp.Server) (context.Context, *mcpsdk.ClientSession) {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return ctx, session
}

func callTool(t *testing.T, ctx context.Context, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

func decodeText(t *testing.T, result *mcpsdk.CallToolResult, dst any) {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok, "first content is not text")
	require.NoError(t, json.Unmarshal([]byte(text.Text), dst))
}

func TestServer_ListToolNames(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	assert.Equal(t, []string{"turncost_compare", "turncost_count", "turncost_validate"}, srv.ListToolNames())
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{mcp.ToolNameCount, mcp.ToolNameCompare, mcp.ToolNameValidate}, toolNames)
}

func TestMCPServer_CallCount(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callTool(t, ctx, session, mcp.ToolNameCount, map[string]any{"schedule": scenarioYAML})
	require.False(t, result.IsError)

	var out mcp.CountOutput

	decodeText(t, result, &out)

	assert.Equal(t, 1, out.Result.Total)
	require.Len(t, out.Result.Agents, 2)
	assert.Equal(t, "A", out.Result.Agents[0].ID)
	assert.Equal(t, 1, out.Result.Agents[0].Turns)
	assert.Equal(t, 0, out.Result.Agents[1].Turns)
	require.NotNil(t, out.Statistics)
	assert.Equal(t, 9, out.Statistics.LowLevelExpanded)
}

func TestMCPServer_CallCount_Errors(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	for _, doc := range []string{"", "schedule:\n  a:\n    - {x: 1}\n", "schedule: ["} {
		result := callTool(t, ctx, session, mcp.ToolNameCount, map[string]any{"schedule": doc})
		assert.True(t, result.IsError, "schedule %q", doc)
	}
}

func TestMCPServer_CallValidate(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callTool(t, ctx, session, mcp.ToolNameValidate, map[string]any{
		"schedule": "schedule:\n  a:\n    - {x: 1, y: oops}\n",
	})
	require.False(t, result.IsError)

	var report struct {
		Violations []struct {
			Field string `json:"field"`
		} `json:"violations"`
	}

	decodeText(t, result, &report)
	require.NotEmpty(t, report.Violations)
	assert.Equal(t, "schedule.a.0.y", report.Violations[0].Field)
}

func writeResult(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestMCPServer_CallCompare(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	orig := filepath.Join(root, "orig")
	changed := filepath.Join(root, "changed")
	reportPath := filepath.Join(root, "compare_results.txt")

	writeResult(t, orig, "outputa.yaml", "turnCount=8\n")
	writeResult(t, orig, "outputb.yaml", "turnCount=2\n")
	writeResult(t, changed, "outputa.yaml", "turnCount=5\n")

	reader := sdkmetric.NewManualReader()
	bm, err := observability.NewBatchMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{BatchMetrics: bm}))

	result := callTool(t, ctx, session, mcp.ToolNameCompare, map[string]any{
		"original_results": orig,
		"changed_results":  changed,
		"report_path":      reportPath,
	})
	require.False(t, result.IsError)

	var out mcp.CompareOutput

	decodeText(t, result, &out)

	require.NotNil(t, out.Comparison)
	require.Len(t, out.Comparison.Rows, 1)
	assert.Equal(t, 3, out.Comparison.Rows[0].Delta)
	assert.Equal(t, []string{"outputb.yaml"}, out.Comparison.Missing)
	assert.Equal(t, 1, out.Summary.Improved)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, "outputa.yaml        original=8    changed=5        compared=3\n", string(data))

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.NotEmpty(t, rm.ScopeMetrics)
}

func TestMCPServer_CallCompare_RejectsRelativePaths(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callTool(t, ctx, session, mcp.ToolNameCompare, map[string]any{
		"original_results": "relative/orig",
		"changed_results":  "relative/changed",
	})
	assert.True(t, result.IsError)
}

func TestMCPServer_WithMetricsAndTracing(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	red, err := observability.NewREDMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{Metrics: red, Tracer: providers.Tracer}))

	result := callTool(t, ctx, session, mcp.ToolNameCount, map[string]any{"schedule": scenarioYAML})
	require.False(t, result.IsError)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "turncost.requests.total" {
				found = true
			}
		}
	}

	assert.True(t, found, "turncost.requests.total not recorded")
}
