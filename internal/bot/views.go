package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	tghelpers "barbot/core/telegram/helpers"
	"barbot/core/telegram/keyboard"
	"barbot/internal/domain"
)

// viewState tracks the message ids of the last rendered view per chat, so a
// re-render can retract the stale one first.
type viewState struct {
	mu   sync.Mutex
	msgs map[int64][]int
}

func newViewState() *viewState {
	return &viewState{msgs: make(map[int64][]int)}
}

// take returns and clears the tracked view messages of a chat.
func (v *viewState) take(chatID int64) []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := v.msgs[chatID]
	delete(v.msgs, chatID)
	return ids
}

func (v *viewState) set(chatID int64, ids []int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.msgs[chatID] = ids
}

// refreshChat re-renders the role-appropriate view of a chat, if it has a
// session. Used as the notify fan-out refresh hook.
func (a *App) refreshChat(ctx context.Context, chatID int64) error {
	sess, err := a.auth.Current(ctx, chatID)
	if err == domain.ErrNotLoggedIn {
		return nil
	}
	if err != nil {
		return err
	}
	return a.renderView(ctx, chatID, sess)
}

// renderView retracts the previous view of the chat and renders a fresh one.
func (a *App) renderView(ctx context.Context, chatID int64, sess *domain.Session) error {
	for _, id := range a.views.take(chatID) {
		tghelpers.DeleteQuiet(a.bot, chatID, id)
	}
	switch sess.Role {
	case domain.RoleBar:
		return a.renderBarView(ctx, chatID, sess.Username)
	case domain.RoleSupply:
		return a.renderSupplyView(ctx, chatID)
	}
	return fmt.Errorf("bot: unknown role %q for chat %d", sess.Role, chatID)
}

// renderBarView shows the bar its open orders and the drink menu.
func (a *App) renderBarView(ctx context.Context, chatID int64, username string) error {
	open, err := a.orders.ListOpenForBar(ctx, username)
	if err != nil {
		return err
	}

	var b strings.Builder
	if len(open) == 0 {
		b.WriteString("No open orders. Pick a drink to order:")
	} else {
		b.WriteString("Your open orders:\n")
		for _, o := range open {
			fmt.Fprintf(&b, "#%d %s x%d\n", o.ID, o.Drink, o.Quantity)
		}
		b.WriteString("\nPick a drink to order more:")
	}

	drinks := a.orders.AssignedDrinks(username)
	if len(drinks) == 0 {
		drinks = a.cfg.Event.Drinks
	}
	buttons := make([]keyboard.InlineBtn, 0, len(drinks))
	for _, d := range drinks {
		buttons = append(buttons, keyboard.InlineBtn{Text: d, Unique: cbSelectDrink, Data: d})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)

	msg, err := a.bot.Send(&tele.Chat{ID: chatID}, b.String(), markup)
	if err != nil {
		return err
	}
	a.views.set(chatID, []int{msg.ID})
	return nil
}

// renderSupplyView shows the backlog grouped by bar. Every group gets a
// header button with order id 0, the orders below it carry their real ids.
func (a *App) renderSupplyView(ctx context.Context, chatID int64) error {
	open, err := a.orders.ListOpen(ctx)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Open orders: %d", len(open))
	if len(open) == 0 {
		text = "No open orders. Enjoy the quiet."
	}

	var bars []string
	grouped := make(map[string][]domain.Order)
	for _, o := range open {
		if _, seen := grouped[o.Username]; !seen {
			bars = append(bars, o.Username)
		}
		grouped[o.Username] = append(grouped[o.Username], o)
	}

	var rows [][]keyboard.InlineBtn
	for _, bar := range bars {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("— %s —", bar),
			Unique: cbDispatchOrder,
			Data:   "0",
		}})
		for _, o := range grouped[bar] {
			rows = append(rows, []keyboard.InlineBtn{{
				Text:   fmt.Sprintf("#%d %s x%d", o.ID, o.Drink, o.Quantity),
				Unique: cbDispatchOrder,
				Data:   strconv.FormatInt(o.ID, 10),
			}})
		}
	}

	msg, err := a.bot.Send(&tele.Chat{ID: chatID}, text, keyboard.InlineButtonsRows(rows...))
	if err != nil {
		return err
	}
	a.views.set(chatID, []int{msg.ID})
	return nil
}
