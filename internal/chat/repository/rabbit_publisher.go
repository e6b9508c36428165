package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"messaging_service/internal/chat/domain"
	"messaging_service/pkg/database"

	"github.com/streadway/amqp"
)

// DefaultExchange topic exchange used for push events
const DefaultExchange = "chat.events"

// RabbitPublisher publish one message per recipient with routing key user.<id>
type RabbitPublisher struct {
	repo     database.RabbitRepo
	exchange string
}

// NewRabbitPublisher declare the exchange and create RabbitPublisher
func NewRabbitPublisher(repo database.RabbitRepo, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := repo.ExchangeDeclare(exchange); err != nil {
		return nil, err
	}
	return &RabbitPublisher{repo: repo, exchange: exchange}, nil
}

// RoutingKey routing key of the user's queue binding
func RoutingKey(userID uint) string {
	return "user." + strconv.FormatUint(uint64(userID), 10)
}

// Publish publish event to every recipient
func (p *RabbitPublisher) Publish(_ context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	for _, id := range event.Recipients {
		err := p.repo.Publish(p.exchange, RoutingKey(id), amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Type:         string(event.Name),
			Timestamp:    event.CreatedAt,
			Body:         body,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
