package utils

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type fakeDeclarer struct {
	declared []string
	durable  bool
	prefetch int
	err      error
}

func (d *fakeDeclarer) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if d.err != nil {
		return amqp.Queue{}, d.err
	}
	d.declared = append(d.declared, name)
	d.durable = durable
	return amqp.Queue{Name: name}, nil
}

func (d *fakeDeclarer) Qos(prefetchCount, prefetchSize int, global bool) error {
	d.prefetch = prefetchCount
	return nil
}

func TestDeclareQueue(t *testing.T) {
	d := &fakeDeclarer{}
	q, err := DeclareQueue("work", d)
	assert.NoError(t, err)
	assert.Equal(t, "work", q.Name)
	assert.Equal(t, []string{"work"}, d.declared)
	assert.True(t, d.durable)
	assert.Equal(t, 1, d.prefetch)
}

func TestDeclareQueueError(t *testing.T) {
	d := &fakeDeclarer{err: errors.New("channel closed")}
	_, err := DeclareQueue("work", d)
	assert.EqualError(t, err, "channel closed")
	assert.Zero(t, d.prefetch)
}
