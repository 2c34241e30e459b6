package cmd

import (
	"context"
	"errors"

	"github.com/lioia/corpus-pagerank/pkg/node"
	"github.com/lioia/corpus-pagerank/pkg/utils"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume rank jobs from the work queue",
	Args:  cobra.NoArgs,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// openChannel connects to RabbitMQ and declares the work and result queues.
func openChannel() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(utils.RabbitURL(config))
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	for _, queue := range []string{config.WorkQueue, config.ResultQueue} {
		if _, err := utils.DeclareQueue(queue, ch); err != nil {
			ch.Close()
			conn.Close()
			return nil, nil, err
		}
	}
	return conn, ch, nil
}

func runWorker(cmd *cobra.Command, _ []string) error {
	conn, ch, err := openChannel()
	if err != nil {
		return err
	}
	defer conn.Close()
	defer ch.Close()

	w := &node.Worker{
		Ranker:      &node.Ranker{Defaults: options()},
		Channel:     ch,
		WorkQueue:   config.WorkQueue,
		ResultQueue: config.ResultQueue,
	}
	err = w.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
