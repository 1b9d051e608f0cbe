package router

import (
	"barbot/core/logger"
	tg "barbot/core/telegram"
	"barbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RoleGate wraps a handler with an access check keyed by an arbitrary role name.
// Commands whose Command definition names a role are wrapped with the matching gate.
type RoleGate func(role string, next tele.HandlerFunc) tele.HandlerFunc

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	Gate RoleGate
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		h := def.Handler
		h = middleware.RecoverMiddleware(h)
		h = middleware.LoggerMiddleware(h)
		if def.RequiredRole != "" && opts.Gate != nil {
			h = opts.Gate(def.RequiredRole, h)
		}
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  h,
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
