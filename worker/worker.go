// Package worker provides the worker-side runtime of the durable
// orchestration engine. A Worker connects to the coordination sidecar,
// receives orchestration-replay and activity-invocation work items from a
// server stream, executes them against registered task implementations, and
// reports results back over the control channel.
package worker

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/duratask/worker-go/core"
	"github.com/duratask/worker-go/executor"
	"github.com/duratask/worker-go/internal/fn"
	internal "github.com/duratask/worker-go/internal/worker"
	"github.com/duratask/worker-go/registry"
	"github.com/duratask/worker-go/sidecar"
	"github.com/duratask/worker-go/task"
)

type Worker struct {
	client  sidecar.Client
	options *Options

	wctx *core.WorkerContext

	orchestrations *registry.Registry[task.Orchestrator]
	activities     *registry.Registry[task.Activity]

	cm         *internal.ConnectionManager
	dispatcher *internal.Dispatcher

	mu       sync.Mutex
	shutdown context.CancelFunc
	done     chan struct{}
}

// OrchestrationFactory instantiates orchestration logic for one replay,
// given the shared worker context.
type OrchestrationFactory = registry.Factory[task.Orchestrator]

// ActivityFactory instantiates activity logic for one invocation, given the
// shared worker context.
type ActivityFactory = registry.Factory[task.Activity]

// New creates a worker talking to the sidecar through client. The replay
// executor is an external collaborator and must be provided.
func New(client sidecar.Client, exec executor.OrchestrationExecutor, opts ...Option) (*Worker, error) {
	if client == nil {
		return nil, errors.New("sidecar client is required")
	}

	if exec == nil {
		return nil, errors.New("orchestration executor is required")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	wctx := core.NewWorkerContext(options.Converter, options.Logger)

	orchestrations := registry.New[task.Orchestrator]()
	activities := registry.New[task.Activity]()

	tracer := options.TracerProvider.Tracer("duratask-worker")

	oh := internal.NewOrchestrationTaskHandler(
		client, orchestrations, exec, wctx, options.Logger, tracer, options.Metrics)
	ah := internal.NewActivityTaskHandler(
		client, activities, wctx, options.Logger, tracer, options.Metrics)

	cm := internal.NewConnectionManager(client, options.Logger, options.ReconnectInterval)
	dispatcher := internal.NewDispatcher(
		cm, oh, ah, options.Logger, options.Clock, options.Metrics, options.ReconnectInterval)

	return &Worker{
		client:  client,
		options: options,

		wctx: wctx,

		orchestrations: orchestrations,
		activities:     activities,

		cm:         cm,
		dispatcher: dispatcher,
	}, nil
}

// Context returns the shared worker context. The host process can provide
// dependencies for task implementations through its scope.
func (w *Worker) Context() *core.WorkerContext {
	return w.wctx
}

// RegisterOrchestration registers an orchestration factory. The name is
// taken from registry.WithName, or derived from the factory's function name.
func (w *Worker) RegisterOrchestration(factory OrchestrationFactory, opts ...registry.RegisterOption) error {
	cfg := registry.Config(opts...)

	name := cfg.Name
	if name == "" {
		name = fn.Name(factory)
	}

	return w.orchestrations.Add(core.NewTaskKey(name, cfg.Version), factory)
}

// RegisterActivity registers activity logic under an explicit or derived
// name: registry.WithName wins, then a task.Named implementation, then the
// bare implementation type name.
func (w *Worker) RegisterActivity(a task.Activity, opts ...registry.RegisterOption) error {
	cfg := registry.Config(opts...)

	name := cfg.Name
	if name == "" {
		name = taskName(a)
	}

	return w.activities.Add(core.NewTaskKey(name, cfg.Version), func(*core.WorkerContext) task.Activity {
		return a
	})
}

// RegisterActivityFunc registers a plain callback under an explicit name.
func (w *Worker) RegisterActivityFunc(name string, f task.ActivityFunc, opts ...registry.RegisterOption) error {
	return w.RegisterActivity(f, append([]registry.RegisterOption{registry.WithName(name)}, opts...)...)
}

// RegisterActivityFactory registers a factory producing a fresh activity per
// invocation.
func (w *Worker) RegisterActivityFactory(name string, factory ActivityFactory, opts ...registry.RegisterOption) error {
	cfg := registry.Config(opts...)
	if cfg.Name == "" {
		cfg.Name = name
	}

	return w.activities.Add(core.NewTaskKey(cfg.Name, cfg.Version), factory)
}

// RegisterTypedActivity registers a typed callback under an explicit name.
// Input and result values are converted with the worker's converter.
func RegisterTypedActivity[In, Out any](
	w *Worker, name string, f func(ctx context.Context, input In) (Out, error), opts ...registry.RegisterOption,
) error {
	cfg := registry.Config(opts...)
	if cfg.Name == "" {
		cfg.Name = name
	}

	return w.activities.Add(core.NewTaskKey(cfg.Name, cfg.Version), func(wctx *core.WorkerContext) task.Activity {
		return task.Typed(wctx.Converter, f)
	})
}

// RegisterDynamicActivity adds an activity to the runtime map. Unlike the
// static registry this works after Start; dynamic activities are consulted
// only when the static lookup misses.
func (w *Worker) RegisterDynamicActivity(name, version string, a task.Activity) error {
	return w.wctx.DynamicActivities.Add(core.NewTaskKey(name, version), a)
}

// Start freezes the registries and connects to the sidecar, retrying with a
// fixed interval until the stream is open or ctx is canceled. The dispatch
// loop runs on its own shutdown signal: canceling ctx after Start returns
// does not stop the worker.
func (w *Worker) Start(ctx context.Context) error {
	w.orchestrations.Freeze()
	w.activities.Freeze()

	// The dispatch loop and its stream live on their own shutdown signal,
	// independent of the start-up ctx.
	loopCtx, cancel := context.WithCancel(context.Background())

	stream, err := w.cm.Establish(ctx, loopCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("starting worker: %w", err)
	}

	done := make(chan struct{})

	w.mu.Lock()
	w.shutdown = cancel
	w.done = done
	w.mu.Unlock()

	go func() {
		defer close(done)
		w.dispatcher.Run(loopCtx, stream)
	}()

	return nil
}

// Stop signals the dispatch loop to shut down and waits for it to exit,
// bounded by ctx. In-flight executions are not awaited or canceled.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	shutdown, done := w.shutdown, w.done
	w.mu.Unlock()

	if shutdown == nil {
		return nil
	}

	shutdown()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func taskName(v any) string {
	if named, ok := v.(task.Named); ok {
		return named.TaskName()
	}

	if reflect.TypeOf(v).Kind() == reflect.Func {
		return fn.Name(v)
	}

	return fn.TypeName(v)
}
