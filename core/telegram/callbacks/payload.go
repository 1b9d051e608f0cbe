package callbacks

import (
	"strconv"

	tele "gopkg.in/telebot.v4"
)

// PayloadInt64 parses the callback payload as int64.
func PayloadInt64(c tele.Context) (int64, error) {
	p := CallbackPayload(c)
	return strconv.ParseInt(p, 10, 64)
}

// PayloadString returns the raw callback payload trimmed of telebot framing.
func PayloadString(c tele.Context) string {
	return CallbackPayload(c)
}
