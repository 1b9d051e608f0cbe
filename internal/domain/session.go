package domain

// Staff roles. Bar workers place resupply orders, supply workers fulfil them.
const (
	RoleBar    = "bar"
	RoleSupply = "supply"
)

// Session binds a chat to an authenticated staff member. At most one
// session exists per chat id; re-login replaces it at the store level.
type Session struct {
	ChatID   int64  `db:"chat_id"`
	Username string `db:"username"`
	Role     string `db:"role"`
}

// ValidRole reports whether the role is one of the known staff roles.
func ValidRole(role string) bool {
	return role == RoleBar || role == RoleSupply
}
