package quiz

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syntaxiz/internal/explain"
	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/router"
	"github.com/abhisek/syntaxiz/internal/screen"
	"github.com/abhisek/syntaxiz/internal/screens/summary"
	sess "github.com/abhisek/syntaxiz/internal/session"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
	"github.com/abhisek/syntaxiz/internal/ui/components"
	"github.com/abhisek/syntaxiz/internal/ui/layout"
)

// correctionCharLimit bounds a one-line revision.
const correctionCharLimit = 256

// Deps are the collaborators a quiz needs.
type Deps struct {
	Engine  *sess.Engine
	Explain *explain.Service

	// FeedbackDuration auto-dismisses feedback. Zero waits for a key.
	FeedbackDuration time.Duration
}

type feedbackKind int

const (
	feedbackNone feedbackKind = iota
	feedbackJudgment
	feedbackCorrection
)

const (
	choiceValid = iota
	choiceInvalid
)

const (
	quitEnd = iota
	quitStay
)

// QuizScreen runs one session: judge a snippet, fix it when it is broken,
// and move on until the learner quits.
type QuizScreen struct {
	deps  Deps
	state *sess.State

	choice int

	feedback    feedbackKind
	seq         int
	grade       *sess.Grade
	judged      *problemgen.Problem
	explanation *explain.Explanation
	fixed       *sess.CorrectionResult

	input    components.CodeInput
	rejected *syntaxcheck.ParseFailure

	quitConfirm bool
	quitChoice  int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)
var _ screen.StatsProvider = (*QuizScreen)(nil)

// New creates a quiz screen. A nil Explain service gives rule-based
// explanations only.
func New(deps Deps) *QuizScreen {
	if deps.Explain == nil {
		deps.Explain = explain.NewService(nil, nil)
	}
	return &QuizScreen{deps: deps}
}

func (s *QuizScreen) Init() tea.Cmd {
	engine := s.deps.Engine
	return func() tea.Msg {
		return sessionStartedMsg{State: engine.Start(context.Background())}
	}
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) HandlesEscape() bool {
	return s.state != nil
}

func (s *QuizScreen) HeaderStats() layout.HeaderStats {
	if s.state == nil {
		return layout.HeaderStats{}
	}
	return layout.HeaderStats{
		Streak:  s.state.Streak,
		Correct: s.state.CorrectJudgments,
		Judged:  s.state.Judgments,
	}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.state == nil:
		return nil
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != feedbackNone:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.state.Phase == sess.PhaseCorrecting:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit fix"},
			{Key: "Tab", Description: "Skip"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "V", Description: "Valid"},
		{Key: "I", Description: "Invalid"},
		{Key: "←→ Enter", Description: "Choose"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		s.state = msg.State
		return s, nil

	case feedbackDoneMsg:
		if msg.Seq != s.seq || s.feedback == feedbackNone {
			return s, nil
		}
		return s, s.dismissFeedback()

	case explanationMsg:
		if msg.Seq != s.seq || msg.Explanation == nil {
			return s, nil
		}
		s.explanation = msg.Explanation
		if s.feedback != feedbackNone {
			return s, s.feedbackTimer()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.editing() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// editing reports whether keystrokes belong to the correction input.
func (s *QuizScreen) editing() bool {
	return s.state != nil && s.state.Phase == sess.PhaseCorrecting &&
		s.feedback == feedbackNone && !s.quitConfirm
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.state == nil {
		return s, nil
	}
	key := msg.String()

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			return s, s.endSession()
		case "n", "N", "esc":
			s.quitConfirm = false
		case "left", "right", "h", "l", "tab":
			s.quitChoice = 1 - s.quitChoice
		case "enter":
			if s.quitChoice == quitEnd {
				return s, s.endSession()
			}
			s.quitConfirm = false
		}
		return s, nil
	}

	if s.feedback != feedbackNone {
		return s, s.dismissFeedback()
	}

	if key == "esc" {
		s.quitConfirm = true
		s.quitChoice = quitStay
		return s, nil
	}

	switch s.state.Phase {
	case sess.PhasePresented:
		switch key {
		case "v", "V", "y", "Y":
			return s, s.judge(sess.JudgmentValid)
		case "i", "I", "n", "N":
			return s, s.judge(sess.JudgmentInvalid)
		case "left", "right", "h", "l", "tab":
			s.choice = 1 - s.choice
		case "enter":
			if s.choice == choiceInvalid {
				return s, s.judge(sess.JudgmentInvalid)
			}
			return s, s.judge(sess.JudgmentValid)
		}

	case sess.PhaseCorrecting:
		switch key {
		case "enter":
			return s, s.submitCorrection()
		case "tab":
			s.next()
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case sess.PhaseGraded:
		s.next()
	}
	return s, nil
}

// judge grades the live problem and opens the feedback overlay. A wrong
// judgment gets the rule-based explanation at once; when an LLM is
// configured the auto-dismiss timer waits for its refinement.
func (s *QuizScreen) judge(j sess.Judgment) tea.Cmd {
	problem := s.state.Problem
	g, err := s.deps.Engine.Judge(context.Background(), s.state, j)
	if err != nil {
		return nil
	}

	s.seq++
	s.feedback = feedbackJudgment
	s.grade = &g
	s.judged = problem
	s.explanation = nil

	if g.Correct {
		return s.feedbackTimer()
	}

	req := explain.Request{Problem: problem, Failure: g.Failure}
	s.explanation = s.deps.Explain.Rules(req)
	if !s.deps.Explain.HasLLM() {
		return s.feedbackTimer()
	}
	return refineCmd(s.deps.Explain, s.seq, req)
}

func refineCmd(svc *explain.Service, seq int, req explain.Request) tea.Cmd {
	return func() tea.Msg {
		return explanationMsg{Seq: seq, Explanation: svc.Refine(context.Background(), req)}
	}
}

func (s *QuizScreen) feedbackTimer() tea.Cmd {
	if s.deps.FeedbackDuration <= 0 {
		return nil
	}
	seq := s.seq
	return tea.Tick(s.deps.FeedbackDuration, func(time.Time) tea.Msg {
		return feedbackDoneMsg{Seq: seq}
	})
}

// dismissFeedback closes the overlay and moves the session along: a graded
// problem is replaced, a problem awaiting correction gets the editor.
func (s *QuizScreen) dismissFeedback() tea.Cmd {
	kind := s.feedback
	s.feedback = feedbackNone

	switch s.state.Phase {
	case sess.PhaseGraded:
		s.next()
	case sess.PhaseCorrecting:
		if kind == feedbackJudgment {
			s.input = components.NewCodeInput("edit until it parses", correctionCharLimit)
			s.input.SetValue(flattenSnippet(s.state.Problem.Text))
			s.rejected = nil
			return s.input.Init()
		}
	case sess.PhasePresented:
		s.resetProblem()
	}
	return nil
}

func (s *QuizScreen) submitCorrection() tea.Cmd {
	revision := s.input.Value()
	if strings.TrimSpace(revision) == "" {
		return nil
	}
	cr, err := s.deps.Engine.SubmitCorrection(context.Background(), s.state, revision)
	if err != nil {
		return nil
	}
	s.input.Submit(cr.Accepted)
	if !cr.Accepted {
		s.rejected = cr.Failure
		return nil
	}

	s.seq++
	s.feedback = feedbackCorrection
	s.fixed = cr
	return s.feedbackTimer()
}

// next abandons the live problem for a new one.
func (s *QuizScreen) next() {
	if err := s.deps.Engine.Next(context.Background(), s.state); err != nil {
		return
	}
	s.resetProblem()
}

func (s *QuizScreen) resetProblem() {
	s.choice = choiceValid
	s.grade = nil
	s.judged = nil
	s.explanation = nil
	s.fixed = nil
	s.rejected = nil
}

func (s *QuizScreen) endSession() tea.Cmd {
	s.quitConfirm = false
	sum := s.deps.Engine.End(context.Background(), s.state)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

// flattenSnippet joins a multi-line snippet into one editable line.
// Blank lines are dropped and each line is trimmed.
func flattenSnippet(text string) string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}
