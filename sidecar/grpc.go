package sidecar

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/duratask/worker-go/protocol"
)

// GRPCClient implements Client on a gRPC client connection. Method
// invocation is hand-rolled against the protocol's method names and JSON
// codec, so no generated stubs are involved.
type GRPCClient struct {
	cc *grpc.ClientConn
}

var _ Client = (*GRPCClient)(nil)

func NewGRPCClient(cc *grpc.ClientConn) *GRPCClient {
	return &GRPCClient{cc: cc}
}

// Dial connects to the sidecar at the given target. Without explicit dial
// options the connection is plaintext; sidecars run next to the worker.
func Dial(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	cc, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to sidecar at %s: %w", target, err)
	}

	return NewGRPCClient(cc), nil
}

func (c *GRPCClient) Close() error {
	return c.cc.Close()
}

func (c *GRPCClient) Hello(ctx context.Context) error {
	return c.cc.Invoke(
		ctx, protocol.MethodHello, &protocol.HelloRequest{}, &protocol.HelloResponse{}, grpc.ForceCodec(protocol.Codec{}))
}

var getWorkItemsDesc = &grpc.StreamDesc{
	StreamName:    "GetWorkItems",
	ServerStreams: true,
}

func (c *GRPCClient) GetWorkItems(ctx context.Context) (WorkItemStream, error) {
	stream, err := c.cc.NewStream(ctx, getWorkItemsDesc, protocol.MethodGetWorkItems, grpc.ForceCodec(protocol.Codec{}))
	if err != nil {
		return nil, err
	}

	if err := stream.SendMsg(&protocol.GetWorkItemsRequest{}); err != nil {
		return nil, err
	}

	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	return &grpcWorkItemStream{stream: stream}, nil
}

func (c *GRPCClient) CompleteOrchestratorTask(ctx context.Context, res *protocol.OrchestratorResponse) error {
	return c.cc.Invoke(
		ctx, protocol.MethodCompleteOrchestratorTask, res, &protocol.CompleteTaskResponse{}, grpc.ForceCodec(protocol.Codec{}))
}

func (c *GRPCClient) CompleteActivityTask(ctx context.Context, res *protocol.ActivityResponse) error {
	return c.cc.Invoke(
		ctx, protocol.MethodCompleteActivityTask, res, &protocol.CompleteTaskResponse{}, grpc.ForceCodec(protocol.Codec{}))
}

type grpcWorkItemStream struct {
	stream grpc.ClientStream
}

func (s *grpcWorkItemStream) Recv() (*protocol.WorkItem, error) {
	wi := &protocol.WorkItem{}
	if err := s.stream.RecvMsg(wi); err != nil {
		return nil, err
	}

	return wi, nil
}
