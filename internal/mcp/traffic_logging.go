package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// trafficLoggingMiddleware logs every request and its response at debug
// level. Notification methods get no response line.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			sessionID, params := requestContext(req)
			logger.Debug("mcp traffic",
				"direction", direction, "stage", "request", "method", method,
				"session_id", sessionID, "params", params)

			result, err := next(ctx, method, req)
			if !strings.HasPrefix(method, "notifications/") {
				logger.Debug("mcp traffic",
					"direction", direction, "stage", "response", "method", method,
					"session_id", sessionID, "result", formatPayload(result), "error", err)
			}
			return result, err
		}
	}
}

// requestContext pulls the session id and encoded params off a request. The
// SDK accessors can panic on partially constructed requests, in which case
// the values degrade to what was extracted before the panic.
func requestContext(req sdkmcp.Request) (sessionID, params string) {
	params = "<nil>"
	if req == nil {
		return "", params
	}
	defer func() { recover() }()
	if p := req.GetParams(); p != nil {
		params = formatPayload(p)
	}
	if session := req.GetSession(); session != nil {
		sessionID = session.ID()
	}
	return sessionID, params
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
