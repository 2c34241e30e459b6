package node

import (
	"context"
	"time"

	"github.com/lioia/corpus-pagerank/pkg/utils"
	amqp "github.com/rabbitmq/amqp091-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Channel is the subset of *amqp.Channel used by workers and publishers.
type Channel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Worker consumes rank jobs from the work queue and publishes results to the
// job's reply queue (or to the result queue when none is set).
type Worker struct {
	Ranker      *Ranker
	Channel     Channel
	WorkQueue   string
	ResultQueue string
}

// Run handles jobs until ctx is done or the delivery channel closes.
func (w *Worker) Run(ctx context.Context) error {
	// Register consumer
	msgs, err := w.Channel.Consume(
		w.WorkQueue, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return err
	}
	utils.ServerLog("Registered consumer for queue %s", w.WorkQueue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	// Get job from bytes
	var in structpb.Struct
	if err := proto.Unmarshal(d.Body, &in); err != nil {
		utils.FailOnNack(d, false, err)
		return
	}
	job, err := JobFromStruct(&in)
	if err != nil {
		utils.FailOnNack(d, false, err)
		return
	}
	if job.ID == "" {
		job.ID = d.MessageId
	}
	utils.ServerLog("Computing job %q", job.ID)
	result, err := w.Ranker.Rank(ctx, job)
	if err != nil {
		// Invalid jobs would fail again
		utils.FailOnNack(d, !IsInvalid(err), err)
		return
	}
	out, err := ResultToStruct(result)
	if err != nil {
		utils.FailOnNack(d, false, err)
		return
	}
	data, err := proto.Marshal(out)
	if err != nil {
		utils.FailOnNack(d, false, err)
		return
	}
	// Publish result to reply queue
	replyTo := d.ReplyTo
	if replyTo == "" {
		replyTo = w.ResultQueue
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = w.Channel.PublishWithContext(pubCtx,
		"",
		replyTo, // routing key
		false,   // mandatory
		false,
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   contentType,
			CorrelationId: job.ID,
			Body:          data,
		})
	if err != nil {
		utils.FailOnNack(d, true, err)
		return
	}
	// Ack
	if err := d.Ack(false); err != nil {
		utils.WarnLog("worker", "Could not ACK job %q: %v", job.ID, err)
	}
}
