package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/store"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

var (
	// ErrWrongPhase is returned when an operation is not allowed in the
	// session's current phase. The state is left untouched.
	ErrWrongPhase = errors.New("operation not allowed in current phase")

	// ErrNoProblem is returned when the session has no live problem.
	ErrNoProblem = errors.New("no live problem")
)

// Options configures an Engine. Every field is optional.
type Options struct {
	// Events records session history. Nil disables recording.
	Events store.EventRepo

	Logger *zap.SugaredLogger

	// Clock defaults to time.Now.
	Clock func() time.Time

	// OnPhase is called on every phase change, including the transient
	// corrected phase.
	OnPhase func(st *State, from, to Phase)
}

// Engine drives session state through the quiz flow.
// It holds collaborators only; all session data lives in State.
type Engine struct {
	gen     problemgen.Generator
	checker syntaxcheck.Checker
	events  store.EventRepo
	logger  *zap.SugaredLogger
	now     func() time.Time
	onPhase func(st *State, from, to Phase)
}

// NewEngine creates an Engine.
func NewEngine(gen problemgen.Generator, checker syntaxcheck.Checker, opts Options) *Engine {
	e := &Engine{
		gen:     gen,
		checker: checker,
		events:  opts.Events,
		logger:  opts.Logger,
		now:     opts.Clock,
		onPhase: opts.OnPhase,
	}
	if e.logger == nil {
		e.logger = zap.NewNop().Sugar()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Checker returns the engine's parse oracle.
func (e *Engine) Checker() syntaxcheck.Checker { return e.checker }

// Start begins a session and presents its first problem.
func (e *Engine) Start(ctx context.Context) *State {
	st := NewState(uuid.New().String(), e.now())
	e.present(st)

	e.record("session start", func() error {
		return e.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID: st.ID,
			Action:    store.ActionStart,
		})
	})
	return st
}

// Judge grades the learner's judgment of the live problem. A correct
// "invalid" on an invalid snippet opens the correction flow; every other
// outcome leaves the problem graded.
func (e *Engine) Judge(ctx context.Context, st *State, j Judgment) (Grade, error) {
	if st.Problem == nil {
		return Grade{}, ErrNoProblem
	}
	if j != JudgmentValid && j != JudgmentInvalid {
		return Grade{}, fmt.Errorf("%w: %q", ErrUnknownJudgment, j)
	}
	if err := requirePhase(st, "judge", PhasePresented); err != nil {
		return Grade{}, err
	}

	g := Evaluate(e.checker, st.Problem.Text, j)
	st.LastGrade = &g
	st.record(st.Problem.Category, g.Correct)

	if g.OpensCorrection() {
		e.transition(st, PhaseCorrecting)
	} else {
		e.transition(st, PhaseGraded)
	}

	elapsed := e.now().Sub(st.PresentedAt)
	data := store.JudgmentEventData{
		SessionID:   st.ID,
		Category:    string(st.Problem.Category),
		Variant:     string(st.Problem.Variant),
		Snippet:     st.Problem.Text,
		Judgment:    string(j),
		ActualValid: g.Actual == JudgmentValid,
		Correct:     g.Correct,
		TimeMs:      int(elapsed.Milliseconds()),
	}
	if g.Failure != nil {
		data.ParseMessage = g.Failure.Error()
	}
	e.record("judgment", func() error {
		return e.events.AppendJudgmentEvent(ctx, data)
	})

	e.logger.Debugw("judgment graded",
		"session_id", st.ID,
		"variant", st.Problem.Variant,
		"judgment", j,
		"correct", g.Correct,
		"phase", st.Phase,
	)
	return g, nil
}

// SubmitCorrection grades a revision of the live problem. Only
// parseability is checked, so any revision that parses is accepted.
// On acceptance the session passes through PhaseCorrected and a new
// problem is presented; otherwise it stays in PhaseCorrecting.
func (e *Engine) SubmitCorrection(ctx context.Context, st *State, revision string) (*CorrectionResult, error) {
	if st.Problem == nil {
		return nil, ErrNoProblem
	}
	if err := requirePhase(st, "correct", PhaseCorrecting); err != nil {
		return nil, err
	}

	res := e.checker.Check(revision)
	cr := &CorrectionResult{
		Revision: revision,
		Accepted: res.Valid(),
		Failure:  res.Failure,
	}
	st.CorrectionAttempts++

	data := store.CorrectionEventData{
		SessionID: st.ID,
		Category:  string(st.Problem.Category),
		Variant:   string(st.Problem.Variant),
		Original:  st.Problem.Text,
		Revision:  revision,
		Accepted:  cr.Accepted,
	}
	if res.Failure != nil {
		data.ParseMessage = res.Failure.Error()
	}
	e.record("correction", func() error {
		return e.events.AppendCorrectionEvent(ctx, data)
	})

	if cr.Accepted {
		st.CorrectionsAccepted++
		cr.Corrected = st.Problem
		e.transition(st, PhaseCorrected)
		st.LastCorrection = cr
		e.present(st)
	} else {
		st.LastCorrection = cr
	}
	return cr, nil
}

// Next abandons the live problem and presents a new one. It is allowed
// once the problem is graded, including mid-correction.
func (e *Engine) Next(_ context.Context, st *State) error {
	if err := requirePhase(st, "next", PhaseGraded, PhaseCorrecting); err != nil {
		return err
	}
	e.present(st)
	return nil
}

// End records the session end and returns its summary. It is allowed in
// any phase.
func (e *Engine) End(ctx context.Context, st *State) *Summary {
	sum := BuildSummary(st, e.now())

	e.record("session end", func() error {
		return e.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:           st.ID,
			Action:              store.ActionEnd,
			ProblemsServed:      sum.ProblemsServed,
			Judgments:           sum.Judgments,
			CorrectJudgments:    sum.CorrectJudgments,
			CorrectionsAccepted: sum.CorrectionsAccepted,
			DurationSecs:        int(sum.Duration.Seconds()),
		})
	})
	return sum
}

// present generates the next problem and resets per-problem fields.
func (e *Engine) present(st *State) {
	st.Problem = e.gen.Generate()
	st.ProblemsServed++
	st.LastGrade = nil
	st.PresentedAt = e.now()
	e.transition(st, PhasePresented)
}

func (e *Engine) transition(st *State, to Phase) {
	from := st.Phase
	st.Phase = to
	if e.onPhase != nil && from != to {
		e.onPhase(st, from, to)
	}
}

// record runs fn against the event repo when one is configured. Failures
// are logged and never surface to the learner.
func (e *Engine) record(what string, fn func() error) {
	if e.events == nil {
		return
	}
	if err := fn(); err != nil {
		e.logger.Warnw("failed to record event", "event", what, "error", err)
	}
}

func requirePhase(st *State, op string, allowed ...Phase) error {
	for _, p := range allowed {
		if st.Phase == p {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in phase %q", ErrWrongPhase, op, st.Phase)
}
