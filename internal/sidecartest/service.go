// Package sidecartest provides an in-process fake sidecar for tests. The
// control channel is served over bufconn with a hand-written service
// descriptor, matching the JSON codec the real sidecar speaks.
package sidecartest

import (
	"context"

	"google.golang.org/grpc"

	"github.com/duratask/worker-go/protocol"
)

// SidecarServer is the server-side contract of the control channel.
type SidecarServer interface {
	Hello(ctx context.Context, req *protocol.HelloRequest) (*protocol.HelloResponse, error)
	GetWorkItems(req *protocol.GetWorkItemsRequest, stream WorkItemsStream) error
	CompleteOrchestratorTask(ctx context.Context, res *protocol.OrchestratorResponse) (*protocol.CompleteTaskResponse, error)
	CompleteActivityTask(ctx context.Context, res *protocol.ActivityResponse) (*protocol.CompleteTaskResponse, error)
}

type WorkItemsStream interface {
	Send(item *protocol.WorkItem) error
	Context() context.Context
}

func RegisterSidecarServer(s *grpc.Server, srv SidecarServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: protocol.ServiceName,
	HandlerType: (*SidecarServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Hello",
			Handler:    helloHandler,
		},
		{
			MethodName: "CompleteOrchestratorTask",
			Handler:    completeOrchestratorTaskHandler,
		},
		{
			MethodName: "CompleteActivityTask",
			Handler:    completeActivityTaskHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "GetWorkItems",
			Handler:       getWorkItemsHandler,
			ServerStreams: true,
		},
	},
}

func helloHandler(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	in := &protocol.HelloRequest{}
	if err := dec(in); err != nil {
		return nil, err
	}

	return srv.(SidecarServer).Hello(ctx, in)
}

func completeOrchestratorTaskHandler(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	in := &protocol.OrchestratorResponse{}
	if err := dec(in); err != nil {
		return nil, err
	}

	return srv.(SidecarServer).CompleteOrchestratorTask(ctx, in)
}

func completeActivityTaskHandler(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	in := &protocol.ActivityResponse{}
	if err := dec(in); err != nil {
		return nil, err
	}

	return srv.(SidecarServer).CompleteActivityTask(ctx, in)
}

func getWorkItemsHandler(srv any, stream grpc.ServerStream) error {
	in := &protocol.GetWorkItemsRequest{}
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	return srv.(SidecarServer).GetWorkItems(in, &workItemsServerStream{stream})
}

type workItemsServerStream struct {
	grpc.ServerStream
}

func (s *workItemsServerStream) Send(item *protocol.WorkItem) error {
	return s.SendMsg(item)
}
