package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"barbot/core/telegram/callbacks"
	"barbot/core/telegram/format"
	tghelpers "barbot/core/telegram/helpers"
	"barbot/internal/domain"
	"barbot/internal/pending"
)

const (
	cbSelectDrink   = "select_drink"
	cbDispatchOrder = "dispatch_order"
)

const (
	msgWelcome        = "Welcome to the resupply bot. Sign in with /login <username> <password>."
	msgLoginUsage     = "Usage: /login <username> <password>"
	msgBadCreds       = "Unknown username or wrong password."
	msgAlreadyIn      = "This chat is already signed in. /logout first to switch."
	msgNotLoggedIn    = "You are not signed in. Use /login <username> <password>."
	msgWrongRole      = "Your role cannot use this button."
	msgHeaderButton   = "That is a bar header. Pick an order below it."
	msgUnknownInput   = "I did not get that. Use /start to see your view."
	msgNothingOrdered = "Okay, nothing ordered."
)

func (a *App) onStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sess, err := a.auth.Current(ctx, c.Chat().ID)
	if err == domain.ErrNotLoggedIn {
		return tghelpers.SendText(c, msgWelcome)
	}
	if err != nil {
		return err
	}
	return a.renderView(ctx, c.Chat().ID, sess)
}

func (a *App) onLogin(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	chatID := c.Chat().ID

	// The message carries a password; retract it regardless of outcome.
	if m := c.Message(); m != nil {
		tghelpers.DeleteQuiet(a.bot, chatID, m.ID)
	}

	fields := strings.Fields(c.Text())
	if len(fields) != 3 {
		return tghelpers.SendText(c, msgLoginUsage)
	}
	username, password := fields[1], fields[2]

	role, err := a.auth.Login(ctx, chatID, username, password)
	switch err {
	case nil:
	case domain.ErrAlreadyLoggedIn:
		return tghelpers.SendText(c, msgAlreadyIn)
	case domain.ErrInvalidCredentials:
		return tghelpers.SendText(c, msgBadCreds)
	default:
		return err
	}

	if err := tghelpers.SendMD(c, fmt.Sprintf("Signed in as *%s*.", format.EscapeMarkdown(username))); err != nil {
		return err
	}
	sess := &domain.Session{ChatID: chatID, Username: username, Role: role}
	return a.renderView(ctx, chatID, sess)
}

func (a *App) onLogout(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	chatID := c.Chat().ID

	sess, err := a.auth.Logout(ctx, chatID)
	if err == domain.ErrNotLoggedIn {
		return tghelpers.SendText(c, msgNotLoggedIn)
	}
	if err != nil {
		return err
	}

	a.pending.Clear(chatID)
	for _, id := range a.views.take(chatID) {
		tghelpers.DeleteQuiet(a.bot, chatID, id)
	}
	return tghelpers.SendText(c, fmt.Sprintf("Signed out, %s. See you next shift.", sess.Username))
}

// onSelectDrink starts the quantity step for the drink picked from the menu.
func (a *App) onSelectDrink(c tele.Context) error {
	chatID := c.Chat().ID
	drink := callbacks.PayloadString(c)
	if drink == "" {
		return tghelpers.SendText(c, msgUnknownInput)
	}

	prompt, err := a.bot.Send(c.Chat(),
		fmt.Sprintf("How many %s? Reply with a number, 0 to cancel.", drink))
	if err != nil {
		return err
	}

	menuID := 0
	if m := c.Message(); m != nil {
		menuID = m.ID
	}
	a.pending.Begin(chatID, pending.Selection{
		Drink:           drink,
		PromptMessageID: prompt.ID,
		MenuMessageID:   menuID,
	})
	return nil
}

// onQuantityReply resolves the pending drink selection with the typed
// quantity. The selection is consumed on every branch; an invalid reply sends
// the user back to the menu.
func (a *App) onQuantityReply(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	chatID := c.Chat().ID

	sel, ok := a.pending.Take(chatID)
	if !ok {
		return nil
	}

	sess, err := a.auth.Current(ctx, chatID)
	if err != nil {
		return a.replyLoginHint(c)
	}

	tghelpers.DeleteQuiet(a.bot, chatID, sel.PromptMessageID)
	tghelpers.DeleteQuiet(a.bot, chatID, sel.MenuMessageID)
	if m := c.Message(); m != nil {
		tghelpers.DeleteQuiet(a.bot, chatID, m.ID)
	}

	qty, err := pending.ParseQuantity(c.Text())
	if err != nil {
		if err := tghelpers.SendText(c, fmt.Sprintf("That was not a number. Pick %s again from the menu.", sel.Drink)); err != nil {
			return err
		}
		return a.renderView(ctx, chatID, sess)
	}
	if qty == 0 {
		if err := tghelpers.SendText(c, msgNothingOrdered); err != nil {
			return err
		}
		return a.renderView(ctx, chatID, sess)
	}

	id, err := a.orders.Place(ctx, sess.Username, sess.Role, sel.Drink, qty)
	if err != nil {
		return err
	}
	_ = a.notify.NotifyRole(ctx, domain.RoleSupply,
		fmt.Sprintf("New order #%d from %s: %s x%d", id, sess.Username, sel.Drink, qty))

	if err := tghelpers.SendMD(c, fmt.Sprintf("Order *#%d* placed: %s x%d.", id, format.EscapeMarkdown(sel.Drink), qty)); err != nil {
		return err
	}
	return a.renderView(ctx, chatID, sess)
}

// onDispatchOrder flips an open order to dispatched and tells the bar.
func (a *App) onDispatchOrder(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	chatID := c.Chat().ID

	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendText(c, msgUnknownInput)
	}
	// Bar headers in the backlog keyboard carry id 0 and are not orders.
	if id == 0 {
		return tghelpers.SendText(c, msgHeaderButton)
	}

	o, err := a.orders.Dispatch(ctx, id)
	switch err {
	case nil:
		_ = a.notify.NotifyUser(ctx, o.Username,
			fmt.Sprintf("On the way: %s x%d (order #%d).", o.Drink, o.Quantity, o.ID))
	case domain.ErrAlreadyDispatched:
		if err := tghelpers.SendText(c, fmt.Sprintf("Order #%d is already on its way.", id)); err != nil {
			return err
		}
	case domain.ErrOrderNotFound:
		if err := tghelpers.SendText(c, fmt.Sprintf("Order #%d does not exist.", id)); err != nil {
			return err
		}
	default:
		return err
	}

	sess, serr := a.auth.Current(ctx, chatID)
	if serr != nil {
		return nil
	}
	return a.renderView(ctx, chatID, sess)
}

func (a *App) onUnknownText(c tele.Context) error {
	return tghelpers.SendText(c, msgUnknownInput)
}

func (a *App) replyLoginHint(c tele.Context) error {
	return tghelpers.SendText(c, msgNotLoggedIn)
}

func (a *App) replyWrongRole(c tele.Context) error {
	return tghelpers.SendText(c, msgWrongRole)
}
