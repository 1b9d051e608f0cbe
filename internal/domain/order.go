package domain

// Order statuses. The lifecycle has exactly one forward transition:
// open -> dispatched. Dispatched is terminal.
const (
	StatusOpen       = "open"
	StatusDispatched = "dispatched"
)

// Order is a drink resupply request placed by a bar worker.
type Order struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Role     string `db:"role"`
	Drink    string `db:"drink"`
	Quantity int    `db:"quantity"`
	Status   string `db:"status"`
}

// Open reports whether the order can still be dispatched.
func (o *Order) Open() bool {
	return o != nil && o.Status == StatusOpen
}
