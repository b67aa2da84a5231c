package sidecartest

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/duratask/worker-go/protocol"
)

// Fake is a scriptable sidecar. Each stream handed to Streams is consumed by
// one GetWorkItems call, in order; completion calls are recorded on the
// response channels.
type Fake struct {
	lis    *bufconn.Listener
	server *grpc.Server

	// HelloErr, when set, fails the liveness probe.
	HelloErr error

	Streams chan *Stream

	OrchestratorResponses chan *protocol.OrchestratorResponse
	ActivityResponses     chan *protocol.ActivityResponse
}

// Stream scripts one work-item stream. Exactly one of Close or Fail ends it.
type Stream struct {
	items chan *protocol.WorkItem
	end   chan error
}

func NewStream() *Stream {
	return &Stream{
		items: make(chan *protocol.WorkItem, 16),
		end:   make(chan error, 1),
	}
}

func (s *Stream) Send(item *protocol.WorkItem) {
	s.items <- item
}

// Fail terminates the stream with the given status error.
func (s *Stream) Fail(err error) {
	s.end <- err
}

// Close terminates the stream cleanly.
func (s *Stream) Close() {
	close(s.end)
}

func NewFake() *Fake {
	f := &Fake{
		lis:                   bufconn.Listen(1024 * 1024),
		Streams:               make(chan *Stream, 16),
		OrchestratorResponses: make(chan *protocol.OrchestratorResponse, 16),
		ActivityResponses:     make(chan *protocol.ActivityResponse, 16),
	}

	f.server = grpc.NewServer(grpc.ForceServerCodec(protocol.Codec{}))
	RegisterSidecarServer(f.server, f)

	go func() {
		_ = f.server.Serve(f.lis)
	}()

	return f
}

func (f *Fake) Stop() {
	f.server.Stop()
}

// DialOptions connects a client through the in-memory listener.
func (f *Fake) DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return f.lis.DialContext(ctx)
		}),
	}
}

// Target is the passthrough address to dial with DialOptions.
func (f *Fake) Target() string {
	return "passthrough:///sidecar"
}

func (f *Fake) Hello(ctx context.Context, _ *protocol.HelloRequest) (*protocol.HelloResponse, error) {
	if f.HelloErr != nil {
		return nil, f.HelloErr
	}

	return &protocol.HelloResponse{}, nil
}

func (f *Fake) GetWorkItems(_ *protocol.GetWorkItemsRequest, stream WorkItemsStream) error {
	var script *Stream
	select {
	case script = <-f.Streams:
	default:
		// No scripted stream, serve an empty one that never ends.
		script = NewStream()
	}

	for {
		select {
		case item := <-script.items:
			if err := stream.Send(item); err != nil {
				return err
			}
		case err := <-script.end:
			return err
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

func (f *Fake) CompleteOrchestratorTask(ctx context.Context, res *protocol.OrchestratorResponse) (*protocol.CompleteTaskResponse, error) {
	f.OrchestratorResponses <- res
	return &protocol.CompleteTaskResponse{}, nil
}

func (f *Fake) CompleteActivityTask(ctx context.Context, res *protocol.ActivityResponse) (*protocol.CompleteTaskResponse, error) {
	f.ActivityResponses <- res
	return &protocol.CompleteTaskResponse{}, nil
}
