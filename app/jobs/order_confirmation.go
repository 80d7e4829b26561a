// Package jobs holds the queued background jobs. Each job is a plain
// JSON-serializable struct registered with the queue by its type name.
package jobs

import (
	"fmt"
	"strings"

	"github.com/gametribe/backend/pkg/mail"
	"github.com/gametribe/backend/pkg/queue"
)

// OrderConfirmationJob mails the order receipt after checkout.
type OrderConfirmationJob struct {
	OrderNumber string          `json:"order_number"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Total       float64         `json:"total"`
	Items       []ConfirmedItem `json:"items"`
}

// ConfirmedItem is one receipt line.
type ConfirmedItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// RegisterAll wires every job type into the queue registry. Call once
// at boot, before StartWorkers.
func RegisterAll() {
	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
}

func (j *OrderConfirmationJob) Handle() error {
	var lines strings.Builder
	for _, item := range j.Items {
		fmt.Fprintf(&lines, "<li>%s x %d: $%.2f</li>", item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}

	html := fmt.Sprintf(
		"<h1>Thanks for your order, %s!</h1>"+
			"<p>Order <strong>%s</strong> is confirmed.</p>"+
			"<ul>%s</ul>"+
			"<p>Total: <strong>$%.2f</strong></p>",
		j.FullName, j.OrderNumber, lines.String(), j.Total,
	)

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order %s confirmed", j.OrderNumber)).
		Body(html).
		Text(fmt.Sprintf("Order %s is confirmed. Total: $%.2f", j.OrderNumber, j.Total)).
		Send()
}
