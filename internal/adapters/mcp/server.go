// Package mcpadapter exposes the attention feed and vitals as MCP tools so
// agents can ask what needs doing without scraping the REST API.
package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/expiry"
	"github.com/nbkdev/control-center/internal/core/ports"
	"github.com/nbkdev/control-center/internal/core/vitals"
)

const (
	serverName    = "nbk-control-center"
	serverVersion = "1.0.0"

	ToolAttentionFeed      = "attention_feed"
	ToolFinancialVitals    = "financial_vitals"
	ToolSubscriptionStatus = "subscription_status"
)

// CallRecorder counts tool invocations; *metrics.HTTPServerMetrics satisfies it.
type CallRecorder interface {
	RecordMCPToolCall(service, tool string, err error)
}

type Tools struct {
	attention     ports.AttentionService
	subscriptions ports.SubscriptionRepository
	recorder      CallRecorder
}

func NewTools(attention ports.AttentionService, subscriptions ports.SubscriptionRepository, recorder CallRecorder) *Tools {
	return &Tools{
		attention:     attention,
		subscriptions: subscriptions,
		recorder:      recorder,
	}
}

// Server registers every tool on a fresh MCP server.
func (t *Tools) Server() *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(ToolAttentionFeed,
		mcp.WithDescription("Ranked list of back-office items that need attention, most urgent first."),
		mcp.WithString("as_of", mcp.Description("Calendar day YYYY-MM-DD to evaluate against; defaults to today.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of items to return; 0 returns all.")),
	), t.instrument(ToolAttentionFeed, t.attentionFeed))

	s.AddTool(mcp.NewTool(ToolFinancialVitals,
		mcp.WithDescription("Pending payments, revenue this month and the 30-day subscription spend."),
		mcp.WithString("as_of", mcp.Description("Calendar day YYYY-MM-DD; defaults to today.")),
	), t.instrument(ToolFinancialVitals, t.financialVitals))

	s.AddTool(mcp.NewTool(ToolSubscriptionStatus,
		mcp.WithDescription("Status and days left for one AI-tool subscription."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Subscription id.")),
		mcp.WithString("as_of", mcp.Description("Calendar day YYYY-MM-DD; defaults to today.")),
	), t.instrument(ToolSubscriptionStatus, t.subscriptionStatus))

	return s
}

// Handler serves the tools over the Streamable HTTP transport.
func (t *Tools) Handler() http.Handler {
	return server.NewStreamableHTTPServer(t.Server())
}

type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (any, error)

// instrument turns a tool's payload into JSON text and its error into a tool
// error result, so the protocol call itself only fails on encoding bugs.
func (t *Tools) instrument(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload, err := fn(ctx, req)
		if t.recorder != nil {
			t.recorder.RecordMCPToolCall("api", name, err)
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s result: %w", name, err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func parseAsOf(req mcp.CallToolRequest) (time.Time, error) {
	raw := strings.TrimSpace(req.GetString("as_of", ""))
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, domain.WrapError(domain.ErrInvalidInput, "parse as_of", err)
	}
	return day, nil
}

func (t *Tools) attentionFeed(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	asOf, err := parseAsOf(req)
	if err != nil {
		return nil, err
	}
	snap, err := t.attention.Snapshot(ctx, asOf)
	if err != nil {
		return nil, err
	}
	if limit := req.GetInt("limit", 0); limit > 0 && len(snap.Items) > limit {
		snap.Items = snap.Items[:limit]
	}
	return snap, nil
}

func (t *Tools) financialVitals(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	asOf, err := parseAsOf(req)
	if err != nil {
		return nil, err
	}
	snap, err := t.attention.Snapshot(ctx, asOf)
	if err != nil {
		return nil, err
	}
	return vitalsResult{AsOf: snap.AsOf, Vitals: snap.Vitals}, nil
}

type vitalsResult struct {
	AsOf string `json:"as_of"`
	vitals.Vitals
}

type subscriptionResult struct {
	ID       string        `json:"id"`
	ToolName string        `json:"tool_name"`
	Status   expiry.Status `json:"status"`
	DaysLeft *int          `json:"days_left,omitempty"`
}

func (t *Tools) subscriptionStatus(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, err := req.RequireString("id")
	if err != nil || strings.TrimSpace(id) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "subscription status", errors.New("id is required"))
	}
	asOf, err := parseAsOf(req)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = t.attention.Today()
	}

	sub, err := t.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	status := expiry.ComputeSubscriptionStatus(sub.ManualStatus, sub.CancelByDate, asOf)
	return subscriptionResult{
		ID:       sub.ID,
		ToolName: sub.ToolName,
		Status:   status.Status,
		DaysLeft: status.DaysLeft,
	}, nil
}
