package node

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func amqpPublishing(body []byte) amqp.Publishing {
	return amqp.Publishing{ContentType: contentType, Body: body}
}

func startWorker(t *testing.T, ch *fakeChannel) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := &Worker{Ranker: testRanker(nil), Channel: ch, WorkQueue: "work", ResultQueue: "result"}
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})
}

func TestWorkerRoundTrip(t *testing.T) {
	t.Parallel()
	ch := newFakeChannel()
	startWorker(t, ch)

	p := &Publisher{Channel: ch, WorkQueue: "work"}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	id, err := p.Submit(ctx, twoPageJob())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	result, err := p.Await(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, result.ID)
	assert.True(t, result.Converged)
	assert.InDelta(t, 1.0, result.Sampling.Sum(), 1e-9)
	assert.InDelta(t, 0.5, result.Iteration["a.html"], 1e-9)
}

func TestWorkerRejectsInvalidJobs(t *testing.T) {
	t.Parallel()
	ch := newFakeChannel()
	startWorker(t, ch)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Undecodable body and empty corpus, then a valid job
	require.NoError(t, ch.PublishWithContext(ctx, "", "work", false, false, amqpPublishing([]byte{0xff, 0x01})))
	empty, err := JobToStruct(Job{ID: "empty"})
	require.NoError(t, err)
	data, err := proto.Marshal(empty)
	require.NoError(t, err)
	require.NoError(t, ch.PublishWithContext(ctx, "", "work", false, false, amqpPublishing(data)))

	p := &Publisher{Channel: ch, WorkQueue: "work"}
	id, err := p.Submit(ctx, twoPageJob())
	require.NoError(t, err)
	_, err = p.Await(ctx, id)
	require.NoError(t, err)

	_, nacks := ch.ack.snapshot()
	assert.Equal(t, []nack{{tag: 1, requeue: false}, {tag: 2, requeue: false}}, nacks)
	// The worker acks job 3, the publisher acks its result
	assert.Eventually(t, func() bool {
		acks, _ := ch.ack.snapshot()
		return len(acks) == 2
	}, 5*time.Second, 10*time.Millisecond)
	acks, _ := ch.ack.snapshot()
	assert.ElementsMatch(t, []uint64{3, 4}, acks)
}

func TestAwaitHonoursContext(t *testing.T) {
	t.Parallel()
	p := &Publisher{Channel: newFakeChannel(), WorkQueue: "work"}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	id, err := p.Submit(ctx, twoPageJob())
	require.NoError(t, err)
	_, err = p.Await(ctx, id)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitUnknownJob(t *testing.T) {
	t.Parallel()
	p := &Publisher{Channel: newFakeChannel(), WorkQueue: "work"}
	_, err := p.Await(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestSubmitUsesPrivateReplyQueue(t *testing.T) {
	t.Parallel()
	ch := newFakeChannel()
	startWorker(t, ch)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Left over from an earlier submit that gave up waiting
	stale := amqpPublishing([]byte{0x01})
	stale.CorrelationId = "old"
	require.NoError(t, ch.PublishWithContext(ctx, "", "result", false, false, stale))

	p := &Publisher{Channel: ch, WorkQueue: "work"}
	id, err := p.Submit(ctx, twoPageJob())
	require.NoError(t, err)
	declared := ch.declarations()
	require.Len(t, declared, 1)
	assert.False(t, declared[0].durable)
	assert.True(t, declared[0].autoDelete)
	assert.True(t, declared[0].exclusive)

	result, err := p.Await(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, result.ID)

	// The shared queue was never read
	assert.Len(t, ch.queue("result"), 1)
	_, nacks := ch.ack.snapshot()
	assert.Empty(t, nacks)
}

func TestAwaitDropsStrayResults(t *testing.T) {
	t.Parallel()
	ch := newFakeChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p := &Publisher{Channel: ch, WorkQueue: "work"}
	id, err := p.Submit(ctx, twoPageJob())
	require.NoError(t, err)
	job := <-ch.queue("work")
	require.NotEmpty(t, job.ReplyTo)

	stray := amqpPublishing([]byte{0x01})
	stray.CorrelationId = "other"
	require.NoError(t, ch.PublishWithContext(ctx, "", job.ReplyTo, false, false, stray))
	out, err := ResultToStruct(Result{ID: id, Passes: 3, Converged: true})
	require.NoError(t, err)
	data, err := proto.Marshal(out)
	require.NoError(t, err)
	reply := amqpPublishing(data)
	reply.CorrelationId = id
	require.NoError(t, ch.PublishWithContext(ctx, "", job.ReplyTo, false, false, reply))

	result, err := p.Await(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Passes)

	acks, nacks := ch.ack.snapshot()
	assert.Equal(t, []nack{{tag: 2, requeue: false}}, nacks)
	assert.Equal(t, []uint64{3}, acks)
}
