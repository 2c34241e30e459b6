package node

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startRankerServer(t *testing.T) Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	RegisterRankerServer(server, &RankerServerImpl{Ranker: testRanker(nil)})
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	client, err := RankerCall("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestRankerRPC(t *testing.T) {
	t.Parallel()
	client := startRankerServer(t)

	job := twoPageJob()
	job.ID = "rpc"
	result, err := client.Rank(job)
	require.NoError(t, err)
	assert.Equal(t, "rpc", result.ID)
	assert.True(t, result.Converged)
	assert.Positive(t, result.Passes)
	assert.InDelta(t, 1.0, result.Sampling.Sum(), 1e-9)
	assert.InDelta(t, 0.5, result.Iteration["b.html"], 1e-9)
}

func TestRankerRPCInvalidArgument(t *testing.T) {
	t.Parallel()
	client := startRankerServer(t)

	damping := 1.5
	job := twoPageJob()
	job.Damping = &damping
	_, err := client.Rank(job)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Rank(Job{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
