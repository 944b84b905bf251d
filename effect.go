package flux

import "fmt"

// Effect is a deferred procedure over a Context, returned by reducers
// alongside an updated model and run by the store after the model update.
//
// An effect declares the action set it may dispatch and the dependencies
// it requires. It is invocable with any context whose action set is
// compatible with the declared one and whose bag satisfies the
// requirement, so an effect declaring {A, B} runs fine under a context
// handling {A, B, C}.
//
// The zero value is the distinguished no-op effect: emptiness is a
// structural property of the value, not an identity comparison, so a
// hand-written effect whose body happens to do nothing is still not
// considered empty.
type Effect struct {
	actions ActionSet
	deps    DepSet
	run     func(Context) error
}

// Noop is the effect that does nothing. It is the neutral element of
// Sequence.
var Noop = Effect{}

// NewEffect builds an effect declaring the given action set.
//
//	eff := flux.NewEffect(flux.Actions(flux.ActionOf[Saved]()), func(ctx flux.Context) error {
//	    return ctx.Dispatch(Saved{})
//	})
func NewEffect(actions ActionSet, run func(Context) error) Effect {
	return Effect{actions: actions, run: run}
}

// NewEffectDeps builds an effect that also declares a dependency
// requirement, checked against the invoking context's bag.
func NewEffectDeps(actions ActionSet, deps DepSet, run func(Context) error) Effect {
	return Effect{actions: actions, deps: deps, run: run}
}

// Actions returns the declared action set.
func (e Effect) Actions() ActionSet { return e.actions }

// Requires returns the declared dependency requirement.
func (e Effect) Requires() DepSet { return e.deps }

// Empty reports whether e is the no-op effect. An effect with a non-nil
// body is never empty, even if the body does nothing.
func (e Effect) Empty() bool { return e.run == nil }

// Call runs the effect with ctx after checking that the context can
// actually serve it: the declared actions must be compatible with the
// context's set and the context's bag must satisfy the requirement.
// Calling the no-op effect does nothing and always succeeds.
func (e Effect) Call(ctx Context) error {
	if e.run == nil {
		return nil
	}
	if err := compatibleErr(e.actions, ctx.actions, Converter{}); err != nil {
		return fmt.Errorf("call effect: %w", err)
	}
	if err := ctx.deps.Satisfies(e.deps); err != nil {
		return fmt.Errorf("call effect: %w", err)
	}
	return e.run(ctx)
}

// Sequence composes effects to run left to right against the same
// context. The composition reduces pairwise: Sequence(a, b, c) is
// Sequence(Sequence(a, b), c). For each pair the declared action sets are
// merged and the dependency requirements unioned; empty operands collapse
// away, so composing only no-ops yields Noop itself and composing a
// single real effect with no-ops yields that effect's body repackaged at
// the merged type.
//
// Within a pair the left effect runs strictly before the right one. An
// error from the left body short-circuits the right.
func Sequence(effs ...Effect) Effect {
	switch len(effs) {
	case 0:
		return Noop
	case 1:
		return effs[0]
	}
	out := effs[0]
	for _, e := range effs[1:] {
		out = sequence2(out, e)
	}
	return out
}

func sequence2(a, b Effect) Effect {
	merged := MergeActions(a.actions, b.actions)
	deps := a.deps.Merge(b.deps)
	switch {
	case a.Empty() && b.Empty():
		return Noop
	case a.Empty():
		return Effect{actions: merged, deps: deps, run: b.run}
	case b.Empty():
		return Effect{actions: merged, deps: deps, run: a.run}
	}
	ra, rb := a.run, b.run
	return Effect{actions: merged, deps: deps, run: func(ctx Context) error {
		if err := ra(ctx); err != nil {
			return err
		}
		return rb(ctx)
	}}
}
