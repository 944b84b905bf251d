package flux

import (
	"errors"
	"fmt"
)

// ErrBadReducer is returned by InvokeReducer when the reducer's signature
// is not one of the supported shapes.
var ErrBadReducer = errors.New("flux: unsupported reducer shape")

// InvokeReducer runs a reducer with the model and action and returns the
// resulting model, normalizing reducers that do and do not produce
// effects. Supported shapes for a model M and action A:
//
//	func(M, A) M               // bare model, handler never invoked
//	func(M, A) Result[M]       // model plus effect
//	func(M, A) (M, Effect)     // model plus effect, unwrapped pair
//
// When the reducer yields a non-empty effect, handler is invoked exactly
// once with it, strictly after the model value is computed. Whether the
// caller commits the model before or after the handler runs is the
// caller's business, not this function's.
//
// A reducer of any other shape is a checked error naming the offending
// type, and the input model is returned unchanged.
func InvokeReducer[M, A any](reducer any, model M, action A, handler func(Effect)) (M, error) {
	switch r := reducer.(type) {
	case func(M, A) M:
		return r(model, action), nil
	case func(M, A) Result[M]:
		res := r(model, action)
		if !res.Effect.Empty() && handler != nil {
			handler(res.Effect)
		}
		return res.Model, nil
	case func(M, A) (M, Effect):
		newModel, eff := r(model, action)
		if !eff.Empty() && handler != nil {
			handler(eff)
		}
		return newModel, nil
	default:
		return model, fmt.Errorf("%w: %T (want func(%T, %T) %T, flux.Result, or (%T, flux.Effect))",
			ErrBadReducer, reducer, model, action, model, model)
	}
}
