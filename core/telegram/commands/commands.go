package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
// RequiredRole, when set, restricts the command to sessions holding that role.
type Command struct {
	Handler      tele.HandlerFunc
	Description  string
	Hidden       bool
	RequiredRole string
	Aliases      []string
}
