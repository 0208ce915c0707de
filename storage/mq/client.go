package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"SpendWise/config"
)

// 领域事件拓扑：引导完成事件走 topic exchange，worker 端绑定队列消费
const (
	EventsExchange = "spendwise.events"

	OnboardingCompletedRoutingKey = "onboarding.completed"
	OnboardingCompletedQueue      = "events.onboarding.completed"
)

var (
	conn   *amqp.Connection
	connMu sync.RWMutex
)

func Init() error {
	url := config.Cfg.GetRabbitMQURL()

	c, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	connMu.Lock()
	conn = c
	connMu.Unlock()

	return declareTopology()
}

func declareTopology() error {
	ch, err := Connection().Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare events exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		OnboardingCompletedQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare onboarding completed queue: %w", err)
	}

	if err := ch.QueueBind(
		OnboardingCompletedQueue,
		OnboardingCompletedRoutingKey,
		EventsExchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind onboarding completed queue: %w", err)
	}

	return nil
}

func Connection() *amqp.Connection {
	connMu.RLock()
	defer connMu.RUnlock()
	return conn
}

func Close(ctx context.Context) error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		return nil
	}

	err := conn.Close()
	conn = nil
	return err
}
