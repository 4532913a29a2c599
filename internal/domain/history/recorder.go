package history

import (
	"context"
	"log"

	"github.com/aetheris-lab/aetheris/internal/domain/tool"
	"github.com/aetheris-lab/aetheris/internal/infra/eventbus"
)

// Recorder consumes tool.executed events and persists them off the request
// path, so dispatch latency never includes a database write.
type Recorder struct {
	service *Service
	bus     eventbus.EventBus
	done    chan struct{}
}

// NewRecorder wires a recorder to the bus. Call Start to begin consuming.
func NewRecorder(service *Service, bus eventbus.EventBus) *Recorder {
	return &Recorder{service: service, bus: bus, done: make(chan struct{})}
}

// Start subscribes to tool.executed and consumes events until ctx ends.
// Returns immediately; consumption runs on its own goroutine.
func (r *Recorder) Start(ctx context.Context) {
	events := r.bus.Subscribe(tool.TopicToolExecuted)
	go func() {
		defer close(r.done)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				r.handle(ctx, evt)
			}
		}
	}()
}

// Wait blocks until the consumption goroutine has exited.
func (r *Recorder) Wait() {
	<-r.done
}

func (r *Recorder) handle(ctx context.Context, evt eventbus.Event) {
	exec, ok := evt.Payload.(tool.Execution)
	if !ok {
		return
	}
	err := r.service.Record(ctx, &Execution{
		ToolID:     exec.Tool,
		CacheHit:   exec.CacheHit,
		Success:    exec.Success,
		DurationMS: exec.Duration.Milliseconds(),
		Error:      exec.Error,
	})
	if err != nil {
		log.Printf("history: record %s failed: %v", exec.Tool, err)
	}
}
