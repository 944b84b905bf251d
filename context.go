package flux

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OnDispatchFunc is called with each action just before it is routed.
// Use it to enrich logs or record metrics without touching handler code.
type OnDispatchFunc func(act Action)

// ContextOption configures a root context built with NewContext.
type ContextOption func(*Context)

// WithLogger attaches a zap logger used for debug-level tracing of
// dispatches and loop control. Contexts default to a nop logger.
//
//	ctx := flux.NewContext(d, loop, deps, flux.WithLogger(logger))
func WithLogger(log *zap.Logger) ContextOption {
	return func(c *Context) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTraceID overrides the generated correlation ID.
func WithTraceID(id string) ContextOption {
	return func(c *Context) {
		c.traceID = id
	}
}

// WithOnDispatch adds a hook called before each action is routed.
// Multiple hooks are called in order.
func WithOnDispatch(fn OnDispatchFunc) ContextOption {
	return func(c *Context) {
		c.onDispatch = append(c.onDispatch, fn)
	}
}

// Context provides effectful code with the capabilities it needs: a
// dispatcher to inject new actions into the store, a handle to the
// store's event loop, and a bag of injected dependencies.
//
// A context is contravariant in its action set: a context for a wider set
// narrows to any compatible subset, never the reverse. If action B
// converts to action A (for example B implements the interface A), a
// context accepting A narrows to one accepting B:
//
//	saver := flux.Actions(flux.ActionOf[SaveRequested](), flux.ActionOf[SaveDone]())
//
//	func saveEffect(ctx flux.Context) error {
//	    if err := ctx.Dispatch(SaveRequested{}); err != nil {
//	        return err
//	    }
//	    ctx.Loop().Async(func() { _ = ctx.Dispatch(SaveDone{}) })
//	    return nil
//	}
//
//	narrowed, err := root.Narrow(saver) // root handles a superset
//
// Contexts are transient values bound to the originating store: all
// narrowed copies share one loop handle and one dependency bag, and none
// of them may outlive the store.
type Context struct {
	actions    ActionSet
	disp       Dispatcher
	loop       *LoopHandle
	deps       Deps
	log        *zap.Logger
	traceID    string
	onDispatch []OnDispatchFunc
}

// NewContext builds a root context from a store's dispatcher, a reference
// to its concrete event loop, and its dependency bag. The loop is adapted
// behind a shared LoopHandle so narrowed copies keep pointing at the same
// loop; it must outlive every context derived from this one.
func NewContext(d Dispatcher, loop EventLoop, deps Deps, opts ...ContextOption) Context {
	c := Context{
		actions: d.Actions(),
		disp:    d,
		deps:    deps,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.traceID == "" {
		c.traceID = uuid.NewString()
	}
	c.loop = newLoopHandle(loop, c.traceID, c.log)
	return c
}

// Dispatch routes act through the context's dispatcher. The action's type
// must be convertible to a member of the declared action set; anything
// else is a checked error, not a silent drop.
func (c Context) Dispatch(act Action) error {
	for _, fn := range c.onDispatch {
		fn(act)
	}
	c.log.Debug("dispatching action",
		zap.String("trace_id", c.traceID),
		zap.String("action", fmt.Sprintf("%T", act)),
	)
	return c.disp.Dispatch(act)
}

// Loop returns the shared event-loop handle.
func (c Context) Loop() *LoopHandle { return c.loop }

// Deps returns the dependency bag.
func (c Context) Deps() Deps { return c.deps }

// Actions returns the declared action set.
func (c Context) Actions() ActionSet { return c.actions }

// TraceID returns the correlation ID assigned when the root context was
// built.
func (c Context) TraceID() string { return c.traceID }

// Narrow returns a copy of the context restricted to the target action
// set. Every target action type must match exactly one slot of this
// context's dispatcher. The narrowed copy shares the loop handle and the
// dependency bag.
func (c Context) Narrow(target ActionSet) (Context, error) {
	d, err := NarrowDispatcher(c.disp, target)
	if err != nil {
		return Context{}, fmt.Errorf("narrow context: %w", err)
	}
	c.log.Debug("narrowing context",
		zap.String("trace_id", c.traceID),
		zap.Stringer("to", target),
	)
	nc := c
	nc.actions = target
	nc.disp = d
	return nc, nil
}

// NarrowVia is Narrow with an explicit converter: dispatched actions are
// rewritten through conv before reaching the original slots.
func (c Context) NarrowVia(target ActionSet, conv Converter) (Context, error) {
	d, err := NarrowDispatcherVia(c.disp, target, conv)
	if err != nil {
		return Context{}, fmt.Errorf("narrow context: %w", err)
	}
	nc := c
	nc.actions = target
	nc.disp = d
	return nc, nil
}
