package flux

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type ContextSuite struct {
	suite.Suite

	rec  *recorder
	loop *manualLoop
	root Context
}

func (s *ContextSuite) SetupTest() {
	s.rec = &recorder{}
	s.loop = &manualLoop{}
	rootActions := Actions(
		ActionOf[incAction](),
		ActionOf[saveAction](),
		ActionOf[savedAction](),
	)
	s.root = NewContext(
		DispatcherFunc(rootActions, s.rec.sink()),
		s.loop,
		NewDeps(fakeClock{now: "noon"}),
	)
}

func (s *ContextSuite) TestDispatchRoutesToSink() {
	s.Require().NoError(s.root.Dispatch(incAction{}))
	s.Require().Equal([]Action{incAction{}}, s.rec.acts)
}

func (s *ContextSuite) TestDispatchOutsideSetFails() {
	err := s.root.Dispatch(loadAction{})
	s.Require().ErrorIs(err, ErrNoMatch)
	s.Require().Empty(s.rec.acts)
}

func (s *ContextSuite) TestNarrowRoutesToSameSink() {
	narrowed, err := s.root.Narrow(Actions(ActionOf[saveAction]()))
	s.Require().NoError(err)

	s.Require().NoError(narrowed.Dispatch(saveAction{}))
	s.Require().Equal([]Action{saveAction{}}, s.rec.acts)
}

func (s *ContextSuite) TestNarrowedContextRejectsDroppedActions() {
	narrowed, err := s.root.Narrow(Actions(ActionOf[saveAction]()))
	s.Require().NoError(err)

	s.Require().ErrorIs(narrowed.Dispatch(incAction{}), ErrNoMatch)
}

func (s *ContextSuite) TestNarrowToIncompatibleSetFails() {
	_, err := s.root.Narrow(Actions(ActionOf[loadAction]()))
	s.Require().ErrorIs(err, ErrNoMatch)
}

func (s *ContextSuite) TestNarrowedCopiesShareLoopAndDeps() {
	narrowed, err := s.root.Narrow(Actions(ActionOf[saveAction]()))
	s.Require().NoError(err)

	s.Require().Same(s.root.Loop(), narrowed.Loop())

	clock, ok := GetDep[fakeClock](narrowed.Deps())
	s.Require().True(ok)
	s.Require().Equal("noon", clock.now)
	s.Require().Equal(s.root.TraceID(), narrowed.TraceID())
}

func (s *ContextSuite) TestNarrowViaConverter() {
	conv := NewConverter(ConvertAction(func(l loadAction) saveAction { return saveAction{} }))

	narrowed, err := s.root.NarrowVia(Actions(ActionOf[loadAction]()), conv)
	s.Require().NoError(err)

	s.Require().NoError(narrowed.Dispatch(loadAction{}))
	s.Require().Equal([]Action{saveAction{}}, s.rec.acts)
}

func TestContextSuite(t *testing.T) {
	suite.Run(t, new(ContextSuite))
}

func TestContextOptions(t *testing.T) {
	actions := Actions(ActionOf[saveAction]())

	t.Run("trace ID defaults to a generated value", func(t *testing.T) {
		a := NewContext(EmptyDispatcher(actions), &manualLoop{}, Deps{})
		b := NewContext(EmptyDispatcher(actions), &manualLoop{}, Deps{})
		require.NotEmpty(t, a.TraceID())
		require.NotEqual(t, a.TraceID(), b.TraceID())
	})

	t.Run("WithTraceID overrides the generated value", func(t *testing.T) {
		ctx := NewContext(EmptyDispatcher(actions), &manualLoop{}, Deps{}, WithTraceID("fixed"))
		require.Equal(t, "fixed", ctx.TraceID())
		require.Equal(t, "fixed", ctx.Loop().ID())
	})

	t.Run("WithOnDispatch hooks run in order before routing", func(t *testing.T) {
		var order []string
		rec := &recorder{}
		ctx := NewContext(
			DispatcherFunc(actions, func(a Action) error {
				order = append(order, "sink")
				rec.acts = append(rec.acts, a)
				return nil
			}),
			&manualLoop{},
			Deps{},
			WithOnDispatch(func(Action) { order = append(order, "first") }),
			WithOnDispatch(func(Action) { order = append(order, "second") }),
		)
		require.NoError(t, ctx.Dispatch(saveAction{}))
		require.Equal(t, []string{"first", "second", "sink"}, order)
	})

	t.Run("WithLogger traces dispatches at debug level", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		ctx := NewContext(
			EmptyDispatcher(actions),
			&manualLoop{},
			Deps{},
			WithLogger(zap.New(core)),
			WithTraceID("trace-1"),
		)
		require.NoError(t, ctx.Dispatch(saveAction{}))

		entries := logs.FilterMessage("dispatching action").All()
		require.Len(t, entries, 1)
		require.Equal(t, "trace-1", entries[0].ContextMap()["trace_id"])
	})
}
