package flux

import "fmt"

// Result pairs a reducer's updated model with an effect to run after the
// model update. Build one from a bare model with Res, which attaches the
// no-op effect, or pair a model with a real effect using ResEff.
type Result[M any] struct {
	Model  M
	Effect Effect
}

// Res builds a Result from a bare model, implicitly paired with Noop.
func Res[M any](m M) Result[M] {
	return Result[M]{Model: m, Effect: Noop}
}

// ResEff pairs a model with an effect.
func ResEff[M any](m M, e Effect) Result[M] {
	return Result[M]{Model: m, Effect: e}
}

// FoldResult converts a nested reducer's result into the parent's result
// type, enforcing the narrowing rules at the boundary:
//
//   - the nested model converts to the parent model via toParent
//   - the nested effect's actions must be compatible with the parent's
//     declared set, directly or through the optional converter
//   - the parent's dependency bag must satisfy the nested effect's
//     requirement
//
// Violations are construction-time errors with a diagnostic naming the
// offending relationship. A typical failure is returning an effect from a
// child reducer without adding the child's action to the parent set.
//
// When a converter is supplied, the folded effect narrows the parent
// context back down to the nested effect's declared set before running,
// so the nested effect keeps dispatching its own action types.
func FoldResult[P, M any](
	r Result[M],
	toParent func(M) P,
	parentActions ActionSet,
	parentDeps Deps,
	conv ...Converter,
) (Result[P], error) {
	cv := pickConverter(conv)
	model := toParent(r.Model)
	if r.Effect.Empty() {
		return Res(model), nil
	}

	if err := compatibleErr(r.Effect.actions, parentActions, cv); err != nil {
		return Result[P]{}, fmt.Errorf("fold result: effect's actions are not compatible with the result's: %w", err)
	}
	if err := parentDeps.Satisfies(r.Effect.deps); err != nil {
		return Result[P]{}, fmt.Errorf("fold result: %w", err)
	}

	if len(cv.rules) == 0 {
		// Directly substitutable: the effect's narrower declaration is
		// accepted by any context handling the parent set.
		return ResEff(model, r.Effect), nil
	}

	inner := r.Effect
	folded := Effect{
		actions: parentActions,
		deps:    inner.deps,
		run: func(pctx Context) error {
			nctx, err := pctx.NarrowVia(inner.actions, cv)
			if err != nil {
				return fmt.Errorf("fold result: %w", err)
			}
			return inner.Call(nctx)
		},
	}
	return ResEff(model, folded), nil
}
