package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// WorldUpdatePublisher defines the interface for publishing world update
// notifications to the updates queue.
type WorldUpdatePublisher interface {
	PublishArcCreated(ctx context.Context, payload ArcCreatedPayload) error
	PublishBeatCreated(ctx context.Context, payload BeatCreatedPayload) error
	PublishArcCompleted(ctx context.Context, payload ArcCompletedPayload) error
	PublishEventLogged(ctx context.Context, payload EventLoggedPayload) error
}

// rabbitMQPublisher implements WorldUpdatePublisher for RabbitMQ.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
}

// NewRabbitMQWorldUpdatePublisher creates a new instance of WorldUpdatePublisher.
// Паблишер сам объявляет очередь: это делает систему устойчивой к порядку
// запуска сервисов. Параметры очереди должны совпадать с консьюмером.
func NewRabbitMQWorldUpdatePublisher(conn *amqp.Connection, queueName string) (WorldUpdatePublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("world update publisher: не удалось открыть канал: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		log.Printf("WorldUpdatePublisher ERROR: Не удалось объявить очередь '%s': %v", queueName, err)
		ch.Close()
		return nil, fmt.Errorf("world update publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}
	log.Printf("WorldUpdatePublisher: Очередь '%s' успешно объявлена/найдена.", queueName)
	return &rabbitMQPublisher{channel: ch, queueName: queueName}, nil
}

// PublishArcCreated publishes an arc creation notification.
func (p *rabbitMQPublisher) PublishArcCreated(ctx context.Context, payload ArcCreatedPayload) error {
	if err := p.publishUpdate(ctx, UpdateTypeArcCreated, payload); err != nil {
		log.Printf("[ArcID: %s] Ошибка публикации ArcCreated: %v", payload.ArcID, err)
		return fmt.Errorf("ошибка публикации уведомления о создании арки %s: %w", payload.ArcID, err)
	}
	return nil
}

// PublishBeatCreated publishes a beat creation notification.
func (p *rabbitMQPublisher) PublishBeatCreated(ctx context.Context, payload BeatCreatedPayload) error {
	if err := p.publishUpdate(ctx, UpdateTypeBeatCreated, payload); err != nil {
		log.Printf("[BeatID: %s] Ошибка публикации BeatCreated: %v", payload.BeatID, err)
		return fmt.Errorf("ошибка публикации уведомления о создании бита %s: %w", payload.BeatID, err)
	}
	return nil
}

// PublishArcCompleted publishes an arc completion notification.
func (p *rabbitMQPublisher) PublishArcCompleted(ctx context.Context, payload ArcCompletedPayload) error {
	if err := p.publishUpdate(ctx, UpdateTypeArcCompleted, payload); err != nil {
		log.Printf("[ArcID: %s] Ошибка публикации ArcCompleted: %v", payload.ArcID, err)
		return fmt.Errorf("ошибка публикации уведомления о завершении арки %s: %w", payload.ArcID, err)
	}
	return nil
}

// PublishEventLogged publishes a world event notification.
func (p *rabbitMQPublisher) PublishEventLogged(ctx context.Context, payload EventLoggedPayload) error {
	if err := p.publishUpdate(ctx, UpdateTypeEventLogged, payload); err != nil {
		log.Printf("[EventID: %s] Ошибка публикации EventLogged: %v", payload.EventID, err)
		return fmt.Errorf("ошибка публикации уведомления о событии %s: %w", payload.EventID, err)
	}
	return nil
}

// publishUpdate serializes the envelope and publishes it.
func (p *rabbitMQPublisher) publishUpdate(ctx context.Context, updateType string, payload any) error {
	body, err := json.Marshal(worldUpdateEnvelope{UpdateType: updateType, Payload: payload})
	if err != nil {
		return fmt.Errorf("ошибка сериализации сообщения '%s': %w", updateType, err)
	}
	return p.publishMessage(ctx, body)
}

// publishMessage is a helper method for publishing a message.
func (p *rabbitMQPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		log.Println("Ошибка публикации: канал RabbitMQ не инициализирован (nil)")
		return errors.New("канал RabbitMQ не инициализирован")
	}
	// Устанавливаем таймаут на публикацию
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	// Попытка публикации с retry до 3 раз
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (используем default)
			p.queueName, // routing key (имя очереди)
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "story-engine",
			},
		)
		if err == nil {
			break
		}
		log.Printf("Ошибка публикации (attempt %d) в очередь '%s': %v", attempt, p.queueName, err)
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("ошибка публикации в очередь %s после retries: %w", p.queueName, err)
	}
	log.Printf("Сообщение успешно опубликовано в очередь '%s'", p.queueName)
	return nil
}
