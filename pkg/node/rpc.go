package node

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const rankMethod = "/pagerank.Ranker/Rank"

// RankerServer is the gRPC ranking service. Jobs and results travel as
// protobuf Structs (see JobToStruct and ResultToStruct).
type RankerServer interface {
	Rank(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var rankerServiceDesc = grpc.ServiceDesc{
	ServiceName: "pagerank.Ranker",
	HandlerType: (*RankerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Rank", Handler: rankHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pagerank.proto",
}

func RegisterRankerServer(s grpc.ServiceRegistrar, srv RankerServer) {
	s.RegisterService(&rankerServiceDesc, srv)
}

func rankHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RankerServer).Rank(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rankMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RankerServer).Rank(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type RankerServerImpl struct {
	Ranker *Ranker
}

func (s *RankerServerImpl) Rank(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	job, err := JobFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	result, err := s.Ranker.Rank(ctx, job)
	if err != nil {
		switch {
		case IsInvalid(err):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, status.FromContextError(err).Err()
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return ResultToStruct(result)
}

type Client struct {
	Ctx    context.Context
	conn   *grpc.ClientConn
	cancel context.CancelFunc
}

// Utility function to create a gRPC client to `url`
// Has to be closed (`c.Close()`)
func RankerCall(url string, timeout time.Duration, opts ...grpc.DialOption) (Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(url, opts...)
	if err != nil {
		return Client{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return Client{
		conn:   conn,
		Ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (c Client) Rank(job Job) (Result, error) {
	in, err := JobToStruct(job)
	if err != nil {
		return Result{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(c.Ctx, rankMethod, in, out); err != nil {
		return Result{}, err
	}
	return ResultFromStruct(out), nil
}

func (c Client) Close() {
	c.cancel()
	c.conn.Close()
}
