package flux

import "go.uber.org/zap"

// TraceDispatcher returns a dispatcher with the same action set and slots
// as d that logs every routed action at debug level before forwarding.
// Use it on the store's root dispatcher when diagnosing routing:
//
//	d = flux.TraceDispatcher(d, logger)
func TraceDispatcher(d Dispatcher, log *zap.Logger) Dispatcher {
	slots := make([]slot, len(d.slots))
	for i, s := range d.slots {
		typ, fn := s.typ, s.fn
		slots[i] = slot{typ: typ, fn: func(a Action) error {
			log.Debug("dispatch", zap.Stringer("slot", typ))
			return fn(a)
		}}
	}
	return Dispatcher{actions: d.actions, slots: slots}
}

// TraceEffect returns an effect equivalent to e that logs when it starts,
// finishes, or fails. The no-op effect is returned unchanged so emptiness
// detection keeps working on the traced value.
func TraceEffect(e Effect, name string, log *zap.Logger) Effect {
	if e.Empty() {
		return e
	}
	run := e.run
	return Effect{actions: e.actions, deps: e.deps, run: func(ctx Context) error {
		log.Debug("effect start",
			zap.String("effect", name),
			zap.String("trace_id", ctx.TraceID()),
		)
		err := run(ctx)
		if err != nil {
			log.Debug("effect failed",
				zap.String("effect", name),
				zap.String("trace_id", ctx.TraceID()),
				zap.Error(err),
			)
			return err
		}
		log.Debug("effect done",
			zap.String("effect", name),
			zap.String("trace_id", ctx.TraceID()),
		)
		return nil
	}}
}
