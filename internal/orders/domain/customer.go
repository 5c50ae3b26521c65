package domain

import "time"

// Customer is the local read model of a customer account, fed by user.created events
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
