package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/liftlog/internal/tracker"
)

const recentSessionCount = 3

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := tracker.History(ctx, h.ds, recentSessionCount)
	if err != nil {
		return nil, err
	}

	out := make([]sessionJSON, 0, len(sessions))
	for _, s := range sessions {
		detail, err := h.ds.SessionDetail(ctx, s.ID)
		if err != nil {
			h.log.Warn("recent_sessions: detail failed", "session", s.ID, "error", err)
			out = append(out, sessionJSON{Session: s, Blocks: []blockJSON{}})
			continue
		}
		out = append(out, groupDetail(detail))
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
