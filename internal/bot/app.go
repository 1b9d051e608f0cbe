// Package bot wires the resupply workflow onto the Telegram runtime: command
// and callback handlers, the per-chat quantity conversation, and the
// role-specific views.
package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	coretelegram "barbot/core/telegram"
	"barbot/core/telegram/commands"
	"barbot/core/telegram/middleware"
	"barbot/core/telegram/router"
	tgsender "barbot/core/telegram/sender"
	"barbot/internal/domain"
	"barbot/internal/pending"
	"barbot/internal/repository"
	"barbot/internal/service/auth"
	"barbot/internal/service/notify"
	"barbot/internal/service/orders"
)

// App holds the assembled application.
type App struct {
	cfg *Config

	auth    *auth.Service
	orders  *orders.Service
	notify  *notify.Service
	pending *pending.Tracker
	views   *viewState

	sessions *repository.Sessions

	bot *tele.Bot
}

// NewApp builds the application graph on top of an open database pool.
func NewApp(cfg *Config, db *sqlx.DB) *App {
	sessions := repository.NewSessions(db)
	orderRepo := repository.NewOrders(db)

	a := &App{
		cfg:      cfg,
		pending:  pending.NewTracker(),
		views:    newViewState(),
		sessions: sessions,
	}
	a.auth = auth.New(cfg.Event.StaffDirectory(), sessions)
	a.orders = orders.New(orderRepo, cfg.Event.Bars)
	a.notify = notify.New(sessions, a, a.refreshChat)
	return a
}

// Send delivers a plain text message to a chat. Used by the notify fan-out.
func (a *App) Send(chatID int64, text string) error {
	if a.bot == nil {
		return fmt.Errorf("bot: not started")
	}
	_, err := a.bot.Send(&tele.Chat{ID: chatID}, text)
	return err
}

// conversation adapts the pending tracker to the text router.
type conversation struct {
	app *App
}

func (cv conversation) InProgress(chatID int64) bool {
	return cv.app.pending.InProgress(chatID)
}

func (cv conversation) Handle(c tele.Context) error {
	return cv.app.onQuantityReply(c)
}

// TelegramRunOptions assembles registry, middlewares, and routes.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.onStart,
		Description: "Show the current view",
	})
	reg.RegisterCommand("/login", commands.Command{
		Handler:     a.onLogin,
		Description: "Sign in: /login <username> <password>",
	})
	reg.RegisterCommand("/logout", commands.Command{
		Handler:     a.onLogout,
		Description: "Sign out",
	})

	gate := middleware.AuthOptions{
		Lookup:      a.auth.RoleLookup,
		OnNoSession: a.replyLoginHint,
		OnWrongRole: a.replyWrongRole,
	}

	if err := reg.RegisterCallback(cbSelectDrink, middleware.RequireRole(domain.RoleBar, gate)(a.onSelectDrink)); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(cbDispatchOrder, middleware.RequireRole(domain.RoleSupply, gate)(a.onDispatchOrder)); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.onUnknownText)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(conversation{app: a}, reg, router.TextOptions{})...)

	opts := coretelegram.RunOptions{
		Config:            a.cfg.Core,
		Registry:          reg,
		Middlewares:       coretelegram.DefaultMiddlewares(a.cfg.Core, nil),
		Routes:            routes,
		DispatcherOptions: tgsender.Options{},
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.bot = rt.Bot
			return nil
		},
	}
	return opts, nil
}
