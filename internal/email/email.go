package email

import (
	"context"
	"fmt"

	"github.com/flyncarry/flyncarry/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	fmt.Printf("send email to user %s: %s - %s\n", event.RecipientID, event.Title, event.Message)
	return nil
}
