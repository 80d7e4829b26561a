// Package services holds the business logic between controllers and
// repositories.
package services

// Event names fired on the process-wide bus. Listeners are registered
// in the server bootstrap.
const (
	EventUserRegistered     = "user.registered"
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)
