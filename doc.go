// Package flux provides the typed action-dispatch and effect-composition
// layer for a unidirectional state-update (reducer/store) architecture.
//
// A store owns a model and updates it by running reducers on dispatched
// actions. Reducers stay pure; anything effectful they want done is
// returned as an Effect, a deferred procedure the store runs later with a
// Context. The context bundles everything effect code may touch: a
// Dispatcher for injecting new actions, a handle to the store's event
// loop, and a bag of injected dependencies.
//
// # Quick Start
//
// Define actions as plain types and a reducer over your model:
//
//	type Increment struct{}
//	type Save struct{}
//	type Saved struct{}
//
//	func reduce(count int, act flux.Action) flux.Result[int] {
//	    switch act.(type) {
//	    case Increment:
//	        return flux.Res(count + 1)
//	    case Save:
//	        eff := flux.NewEffect(flux.Actions(flux.ActionOf[Saved]()), func(ctx flux.Context) error {
//	            return ctx.Dispatch(Saved{})
//	        })
//	        return flux.ResEff(count, eff)
//	    }
//	    return flux.Res(count)
//	}
//
// The store drives each dispatch cycle through InvokeReducer, collecting
// the effect through a handler and running it after the model update:
//
//	model, err := flux.InvokeReducer(reduce, model, act, func(eff flux.Effect) {
//	    ctx.Loop().Async(func() { _ = eff.Call(ctx) })
//	})
//
// # Action Sets and Narrowing
//
// Every dispatcher, context, and effect declares the ActionSet it is
// willing to handle. Sets are ordered and deduplicated, and two action
// types are compatible when one converts to the other: identical types,
// a concrete action and an interface it implements, or an explicit
// Converter rule.
//
// Contexts are contravariant in their action set. Effect code written
// against the two actions it actually dispatches runs unchanged under any
// context handling a superset:
//
//	narrowed, err := root.Narrow(flux.Actions(flux.ActionOf[A](), flux.ActionOf[B]()))
//
// Narrowing synthesizes a new routing table: each target action type must
// match exactly one slot of the source dispatcher. A target type matching
// zero slots or several is a construction-time error, never a silent
// tie-break.
//
// # Effects and Sequencing
//
// Effects compose with Sequence, which merges the declared action sets
// (deduplicated by convertibility) and the dependency requirements, and
// guarantees left-to-right execution against the same context:
//
//	eff := flux.Sequence(persist, notify, refresh)
//
// The zero Effect is the no-op and the neutral element of Sequence:
// composing it away never wraps a real effect in extra indirection, and
// emptiness is a structural check on the value, not a function-identity
// heuristic.
//
// # Error Handling
//
// All composition failures, such as incompatible action sets, ambiguous
// routing, missing dependencies, or an unsupported reducer shape, are
// checked errors returned at construction or invocation time, wrapping
// the package sentinels (ErrNoMatch, ErrAmbiguousMatch,
// ErrIncompatibleActions, ErrMissingDeps, ErrBadReducer).
//
// # Concurrency
//
// The package imposes no threading model. Dispatch and effect invocation
// are synchronous; deferral happens only when effect bodies call
// Loop().Async, which queues work FIFO on the store's single cooperative
// loop. All contexts narrowed from one root share that loop handle, whose
// lifetime is the store's; no locking is added beyond what the underlying
// loop guarantees.
package flux
