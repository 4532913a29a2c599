// Package tool implements the registry of named utility tools and the
// dispatcher that runs them behind a uniform execute/cache contract.
package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aetheris-lab/aetheris/internal/infra/cache"
	"github.com/aetheris-lab/aetheris/internal/infra/eventbus"
)

var (
	ErrUnknownTool   = errors.New("tool not registered")
	ErrNotExecutable = errors.New("tool has no executor")
	ErrExecution     = errors.New("tool execution failed")
)

// ExecutionError wraps a failure raised by an executor, preserving the
// underlying message. errors.Is(err, ErrExecution) matches it.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() []error {
	return []error{ErrExecution, e.Err}
}

// Metadata describes a registered tool. Immutable after registration.
type Metadata struct {
	ID          string   `json:"tool_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Keywords    []string `json:"keywords"`
	Version     string   `json:"version"`
}

// Registration pairs tool metadata with an optional executor capability.
// A tool with a nil executor is advertised in the catalog but not invocable.
type Registration struct {
	Meta Metadata
	Exec Executor
}

// TopicToolExecuted is the event bus topic for Execution events.
const TopicToolExecuted = "tool.executed"

// Execution is the payload published after every dispatch attempt.
type Execution struct {
	Tool     string
	CacheHit bool
	Success  bool
	Duration time.Duration
	Error    string
}

// DefaultTTL is how long successful execution results stay cached.
const DefaultTTL = time.Hour

// Registry maps tool ids to registrations and dispatches executions.
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Registration

	store *cache.Store
	ttl   time.Duration
	bus   eventbus.EventBus

	// flight collapses concurrent identical cache-enabled executions onto a
	// single executor invocation, keyed by the derived cache key.
	flight singleflight.Group
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL overrides the default result TTL.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

// WithEventBus makes the registry publish Execution events.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(r *Registry) { r.bus = bus }
}

// NewRegistry creates a registry backed by the given cache store.
func NewRegistry(store *cache.Store, opts ...Option) *Registry {
	r := &Registry{
		tools: make(map[string]Registration),
		store: store,
		ttl:   DefaultTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool. Registering an id twice overwrites the previous
// registration (last write wins) while keeping its original catalog position.
func (r *Registry) Register(meta Metadata, exec Executor) error {
	id := strings.TrimSpace(meta.ID)
	if id == "" {
		return fmt.Errorf("tool id is required")
	}
	meta.ID = id
	if meta.Version == "" {
		meta.Version = "1.0.0"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[id]; !exists {
		r.order = append(r.order, id)
	}
	r.tools[id] = Registration{Meta: meta, Exec: exec}
	return nil
}

// Get returns the metadata for id.
func (r *Registry) Get(id string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.tools[id]
	return reg.Meta, ok
}

// List returns all tool metadata in registration order.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Metadata, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tools[id].Meta)
	}
	return out
}

// NavigationNode is one entry of the catalog navigation tree.
type NavigationNode struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	Type      string           `json:"type"` // "category" or "tool"
	Icon      string           `json:"icon,omitempty"`
	Component string           `json:"component,omitempty"`
	Children  []NavigationNode `json:"children,omitempty"`
}

// NavigationTree groups tools by category. Categories appear in
// first-registration order, tools within a category in registration order.
// The projection is recomputed on every call; the registry is small and
// stable so caching it buys nothing.
func (r *Registry) NavigationTree() []NavigationNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var catOrder []string
	byCategory := make(map[string][]Metadata)
	for _, id := range r.order {
		meta := r.tools[id].Meta
		if _, seen := byCategory[meta.Category]; !seen {
			catOrder = append(catOrder, meta.Category)
		}
		byCategory[meta.Category] = append(byCategory[meta.Category], meta)
	}

	tree := make([]NavigationNode, 0, len(catOrder))
	for _, category := range catOrder {
		node := NavigationNode{
			ID:    categorySlug(category),
			Label: category,
			Type:  "category",
		}
		for _, meta := range byCategory[category] {
			node.Children = append(node.Children, NavigationNode{
				ID:        meta.ID,
				Label:     meta.Name,
				Type:      "tool",
				Icon:      meta.Icon,
				Component: meta.ID,
			})
		}
		tree = append(tree, node)
	}
	return tree
}

// categorySlug derives a stable key from a category display name.
func categorySlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Execute dispatches a tool invocation.
//
// With useCache, the result of a previous identical invocation is returned
// without re-invoking the executor, including any side effects the executor
// would have had (e.g. writing an output file). The cache memoizes the
// response, not the effects. Successful results are
// stored under "tool:{id}" + canonical params for the registry TTL.
//
// Concurrent cache-enabled calls with the same derived key are collapsed to a
// single executor invocation. Calls with useCache=false always execute.
func (r *Registry) Execute(ctx context.Context, id string, params map[string]any, useCache bool) (any, error) {
	r.mu.RLock()
	reg, ok := r.tools[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}
	if reg.Exec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotExecutable, id)
	}

	if !useCache {
		return r.invoke(ctx, id, reg.Exec, params)
	}

	key, err := cache.DeriveKey("tool:"+id, params)
	if err != nil {
		return nil, err
	}

	if value, hit := r.store.Get(key); hit {
		r.publish(Execution{Tool: id, CacheHit: true, Success: true})
		return value, nil
	}

	value, err, _ := r.flight.Do(key, func() (any, error) {
		return r.executeMiss(ctx, id, reg.Exec, params, key)
	})
	return value, err
}

// executeMiss is the body of one singleflight flight: it re-checks the cache,
// then executes and stores the result. A concurrent flight may have populated
// the cache while this call was waiting to start; that hit is reported like
// any other.
func (r *Registry) executeMiss(ctx context.Context, id string, exec Executor, params map[string]any, key string) (any, error) {
	if cached, hit := r.store.Get(key); hit {
		r.publish(Execution{Tool: id, CacheHit: true, Success: true})
		return cached, nil
	}
	result, execErr := r.invoke(ctx, id, exec, params)
	if execErr != nil {
		return nil, execErr
	}
	r.store.Set(key, result, r.ttl)
	return result, nil
}

// invoke runs the executor, converting errors and panics into ExecutionError
// and publishing the outcome.
func (r *Registry) invoke(ctx context.Context, id string, exec Executor, params map[string]any) (result any, err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = &ExecutionError{Tool: id, Err: fmt.Errorf("panic: %v", rec)}
		}
		ev := Execution{Tool: id, Success: err == nil, Duration: time.Since(start)}
		if err != nil {
			ev.Error = err.Error()
		}
		r.publish(ev)
	}()

	result, execErr := exec.Execute(ctx, params)
	if execErr != nil {
		return nil, &ExecutionError{Tool: id, Err: execErr}
	}
	return result, nil
}

func (r *Registry) publish(ev Execution) {
	if r.bus != nil {
		r.bus.Publish(TopicToolExecuted, ev)
	}
}
