package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// closableSource wraps the event-source mock with a Close counter, the
// shape the SQL reader takes on the server path.
type closableSource struct {
	contract.MockEventSource
	closeCalls int
}

func (s *closableSource) Close() error {
	s.closeCalls++
	return nil
}

func handlerConfig(t *testing.T) *contract.Config {
	t.Helper()
	rulesFile := filepath.Join(t.TempDir(), "rules.csv")
	rules := `id,effective_from,effective_to,organism,department,monthly_threshold,amber_threshold,red_threshold
1,2024-01-01,,mrsa,,2,,
`
	require.NoError(t, os.WriteFile(rulesFile, []byte(rules), 0o644))

	return &contract.Config{
		AsOf:          time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		BaselineStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		BaselineEnd:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		CurrentStart:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CurrentEnd:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Window:        7,
		Workers:       2,
		RulesFile:     rulesFile,
	}
}

func emptyRequest(name string) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: map[string]any{},
		},
	}
}

// TestHandlersCloseEventSource verifies every tool call closes the event
// source it built. The stdio server is long-lived, so a source left open
// would leak one connection pool per call.
func TestHandlersCloseEventSource(t *testing.T) {
	events := []schema.EventRecord{
		{
			Date:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Entity: schema.EntityKey{Site: "central", Department: "icu", Organism: "mrsa"},
		},
	}

	tests := []struct {
		name string
		call func(h *toolHandler, ctx context.Context) (*mcp.CallToolResult, error)
	}{
		{
			name: "monitor_series",
			call: func(h *toolHandler, ctx context.Context) (*mcp.CallToolResult, error) {
				return h.handleMonitorSeries(ctx, emptyRequest("monitor_series"))
			},
		},
		{
			name: "resolve_thresholds",
			call: func(h *toolHandler, ctx context.Context) (*mcp.CallToolResult, error) {
				return h.handleResolveThresholds(ctx, emptyRequest("resolve_thresholds"))
			},
		},
		{
			name: "get_trend",
			call: func(h *toolHandler, ctx context.Context) (*mcp.CallToolResult, error) {
				return h.handleGetTrend(ctx, emptyRequest("get_trend"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &closableSource{}
			src.On("FetchEvents", mock.Anything, mock.Anything, mock.Anything).Return(events, nil)
			h := &toolHandler{
				baseCfg: handlerConfig(t),
				newSource: func(*contract.Config) (contract.EventSource, error) {
					return src, nil
				},
			}

			res, err := tt.call(h, context.Background())
			require.NoError(t, err)
			assert.False(t, res.IsError)
			assert.Equal(t, 1, src.closeCalls, "the handler must close the source it built")
		})
	}
}

// TestHandlersCloseEventSourceOnError verifies the source is closed even
// when the pipeline run fails after it was built.
func TestHandlersCloseEventSourceOnError(t *testing.T) {
	src := &closableSource{}
	src.On("FetchEvents", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))
	h := &toolHandler{
		baseCfg: handlerConfig(t),
		newSource: func(*contract.Config) (contract.EventSource, error) {
			return src, nil
		},
	}

	res, err := h.handleMonitorSeries(context.Background(), emptyRequest("monitor_series"))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "monitoring failed")
	assert.Equal(t, 1, src.closeCalls)
}
