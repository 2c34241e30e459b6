package node

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lioia/corpus-pagerank/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	ErrResultQueueClosed = errors.New("result queue closed")
	ErrUnknownJob        = errors.New("unknown job")
)

// ReplyChannel is a Channel that can also declare private reply queues.
type ReplyChannel interface {
	Channel
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// Publisher submits rank jobs to the work queue. Every job gets its own
// exclusive, auto-deleted reply queue, so Await only ever sees its result.
type Publisher struct {
	Channel   ReplyChannel
	WorkQueue string

	mu      sync.Mutex
	replies map[string]string // job id -> reply queue
}

// Submit publishes job and returns its ID, generating one if unset.
func (p *Publisher) Submit(ctx context.Context, job Job) (string, error) {
	if job.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return "", err
		}
		job.ID = id
	}
	in, err := JobToStruct(job)
	if err != nil {
		return "", err
	}
	data, err := proto.Marshal(in)
	if err != nil {
		return "", err
	}
	// Server-named queue, dropped with the connection or the last consumer
	reply, err := p.Channel.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return "", fmt.Errorf("declare reply queue: %w", err)
	}
	err = p.Channel.PublishWithContext(ctx,
		"",
		p.WorkQueue, // routing key
		false,       // mandatory
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  contentType,
			MessageId:    job.ID,
			ReplyTo:      reply.Name,
			Body:         data,
		})
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	if p.replies == nil {
		p.replies = make(map[string]string)
	}
	p.replies[job.ID] = reply.Name
	p.mu.Unlock()
	utils.ServerLog("Submitted job %q to %s (reply to %s)", job.ID, p.WorkQueue, reply.Name)
	return job.ID, nil
}

// Await blocks until the result of job id arrives on its reply queue.
func (p *Publisher) Await(ctx context.Context, id string) (Result, error) {
	p.mu.Lock()
	queue, ok := p.replies[id]
	p.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownJob, id)
	}

	consumer := "await-" + id
	msgs, err := p.Channel.Consume(
		queue,    // queue
		consumer, // consumer
		false,    // auto-ack
		true,     // exclusive
		false,    // no-local
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		return Result{}, err
	}
	defer p.Channel.Cancel(consumer, false)
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return Result{}, ErrResultQueueClosed
			}
			if d.CorrelationId != id {
				// Nobody else reads this queue
				utils.FailOnNack(d, false, fmt.Errorf("unexpected result %q", d.CorrelationId))
				continue
			}
			var out structpb.Struct
			if err := proto.Unmarshal(d.Body, &out); err != nil {
				utils.FailOnNack(d, false, err)
				return Result{}, err
			}
			if err := d.Ack(false); err != nil {
				utils.WarnLog("publisher", "Could not ACK result %q: %v", id, err)
			}
			p.mu.Lock()
			delete(p.replies, id)
			p.mu.Unlock()
			return ResultFromStruct(&out), nil
		}
	}
}
