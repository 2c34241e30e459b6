package utils

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueDeclarer is the subset of *amqp.Channel used to declare queues.
type QueueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
}

func DeclareQueue(name string, ch QueueDeclarer) (queue amqp.Queue, err error) {
	queue, err = ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return
	}
	// One unacknowledged job per worker
	if err = ch.Qos(1, 0, false); err != nil {
		return
	}
	return
}

// FailOnNack hands the delivery back to the broker. Transient failures are
// requeued, malformed jobs are dropped.
func FailOnNack(d amqp.Delivery, requeue bool, err error) {
	WarnLog("queue", "Could not process job %s: %v", d.MessageId, err)
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		WarnLog("queue", "Could not NACK to message queue: %v", nackErr)
	}
}

func RabbitURL(c Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:5672/", c.RabbitUser, c.RabbitPass, c.RabbitHost)
}
