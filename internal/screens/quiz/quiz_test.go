package quiz

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syntaxiz/internal/explain"
	"github.com/abhisek/syntaxiz/internal/llm"
	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/router"
	"github.com/abhisek/syntaxiz/internal/screens/summary"
	sess "github.com/abhisek/syntaxiz/internal/session"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

// scriptedGen serves problems in order, repeating the last one.
type scriptedGen struct {
	problems []*problemgen.Problem
	i        int
}

func (g *scriptedGen) Generate() *problemgen.Problem {
	p := g.problems[g.i]
	if g.i < len(g.problems)-1 {
		g.i++
	}
	return p
}

var (
	loopProblem = &problemgen.Problem{
		Text:        "for (let x = 0; x < 5; x++) {\n\n}",
		Category:    problemgen.CategoryForLoop,
		Variant:     problemgen.VariantLoopCorrect,
		ExpectValid: true,
	}
	quoteProblem = &problemgen.Problem{
		Text:     "'abc\"",
		Category: problemgen.CategoryQuotes,
		Variant:  problemgen.VariantQuotesMismatched,
	}
	equalityProblem = &problemgen.Problem{
		Text:     "if (3 = valab) {\n\n}",
		Category: problemgen.CategoryEquality,
		Variant:  problemgen.VariantEqualitySingle,
	}
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// newTestQuiz builds a started quiz. Feedback never auto-dismisses unless
// the test sets a duration.
func newTestQuiz(t *testing.T, deps Deps, problems ...*problemgen.Problem) *QuizScreen {
	t.Helper()
	deps.Engine = sess.NewEngine(&scriptedGen{problems: problems}, syntaxcheck.New(), sess.Options{})
	s := New(deps)
	s.Update(s.Init()())
	if s.state == nil {
		t.Fatal("session did not start")
	}
	return s
}

func TestQuiz_ShowsSnippet(t *testing.T) {
	s := newTestQuiz(t, Deps{}, loopProblem)
	view := s.View(100, 30)
	for _, want := range []string{"for (let x = 0; x < 5; x++) {", "Does this snippet parse?", "Valid", "Invalid", "For loops"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.state.Phase != sess.PhasePresented {
		t.Errorf("phase = %q, want presented", s.state.Phase)
	}
}

func TestQuiz_LoadingBeforeStart(t *testing.T) {
	s := New(Deps{Engine: sess.NewEngine(&scriptedGen{problems: []*problemgen.Problem{loopProblem}}, syntaxcheck.New(), sess.Options{})})
	if !strings.Contains(s.View(80, 24), "Warming up") {
		t.Error("expected loading view before the session starts")
	}
	if s.HandlesEscape() {
		t.Error("esc should fall through to the app while loading")
	}
	if s.KeyHints() != nil {
		t.Error("expected no key hints while loading")
	}
}

func TestQuiz_CorrectValidJudgment(t *testing.T) {
	s := newTestQuiz(t, Deps{}, loopProblem, quoteProblem)

	s.Update(keyPress('v'))
	if s.feedback != feedbackJudgment {
		t.Fatal("expected judgment feedback")
	}
	if !s.grade.Correct {
		t.Error("valid loop judged valid should be correct")
	}
	if s.explanation != nil {
		t.Error("correct judgments carry no explanation")
	}
	if view := s.View(100, 30); !strings.Contains(view, "Correct!") {
		t.Errorf("feedback view missing headline:\n%s", view)
	}

	// Any key dismisses and a graded problem is replaced.
	s.Update(keyPress('x'))
	if s.feedback != feedbackNone {
		t.Error("feedback should be dismissed")
	}
	if s.state.Problem != quoteProblem || s.state.Phase != sess.PhasePresented {
		t.Errorf("expected next problem presented, got %q in %q", s.state.Problem.Text, s.state.Phase)
	}
	if got := s.HeaderStats(); got.Judged != 1 || got.Correct != 1 || got.Streak != 1 {
		t.Errorf("header stats = %+v", got)
	}
}

func TestQuiz_WrongJudgmentExplains(t *testing.T) {
	s := newTestQuiz(t, Deps{}, equalityProblem)

	_, cmd := s.Update(keyPress('y'))
	if s.grade == nil || s.grade.Correct {
		t.Fatal("assignment in a condition judged valid should be wrong")
	}
	if s.explanation == nil || s.explanation.Source != explain.SourceRules {
		t.Fatalf("expected a rule-based explanation, got %+v", s.explanation)
	}
	if cmd != nil {
		t.Error("no timer expected with zero feedback duration and no LLM")
	}
	view := s.View(100, 40)
	for _, want := range []string{"Not quite", "Parser:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.state.Phase != sess.PhaseGraded {
		t.Errorf("phase = %q, want graded", s.state.Phase)
	}
}

func TestQuiz_CorrectionFlow(t *testing.T) {
	s := newTestQuiz(t, Deps{}, quoteProblem, loopProblem)

	s.Update(keyPress('n'))
	if !s.grade.OpensCorrection() || s.state.Phase != sess.PhaseCorrecting {
		t.Fatalf("expected correction to open, phase %q", s.state.Phase)
	}

	// Dismissing the feedback opens the editor prefilled with the snippet.
	s.Update(keyPress(' '))
	if got := s.input.Value(); got != "'abc\"" {
		t.Fatalf("input = %q, want the snippet", got)
	}
	if !strings.Contains(s.View(100, 30), "Fix the snippet") {
		t.Error("expected the correcting view")
	}

	// Submitting the unchanged snippet is rejected.
	s.Update(specialKey(tea.KeyEnter))
	if s.rejected == nil {
		t.Fatal("expected the unchanged snippet to be rejected")
	}
	if s.state.Phase != sess.PhaseCorrecting {
		t.Errorf("phase = %q, want correcting", s.state.Phase)
	}
	if !strings.Contains(s.View(100, 30), "Still does not parse") {
		t.Error("expected the rejection message")
	}

	// Typing goes to the editor, not the judgment keys.
	s.input.SetValue("'abc")
	s.Update(keyPress('\''))
	if got := s.input.Value(); got != "'abc'" {
		t.Fatalf("input = %q after typing", got)
	}

	s.Update(specialKey(tea.KeyEnter))
	if s.feedback != feedbackCorrection {
		t.Fatal("expected correction feedback")
	}
	if s.state.CorrectionsAccepted != 1 || s.state.CorrectionAttempts != 2 {
		t.Errorf("corrections = %d/%d, want 1/2", s.state.CorrectionsAccepted, s.state.CorrectionAttempts)
	}
	if s.state.Problem != loopProblem || s.state.Phase != sess.PhasePresented {
		t.Errorf("expected the next problem after an accepted fix")
	}

	s.Update(keyPress('z'))
	if s.feedback != feedbackNone || s.fixed != nil || s.rejected != nil {
		t.Error("per-problem fields should reset")
	}
}

func TestQuiz_TabSkipsCorrection(t *testing.T) {
	s := newTestQuiz(t, Deps{}, quoteProblem, loopProblem)
	s.Update(keyPress('i'))
	s.Update(keyPress(' '))
	if s.state.Phase != sess.PhaseCorrecting {
		t.Fatalf("phase = %q, want correcting", s.state.Phase)
	}

	s.Update(specialKey(tea.KeyTab))
	if s.state.Problem != loopProblem || s.state.Phase != sess.PhasePresented {
		t.Errorf("tab should present the next problem, phase %q", s.state.Phase)
	}
	if s.state.CorrectionAttempts != 0 {
		t.Error("skipping is not a correction attempt")
	}
}

func TestQuiz_ArrowsAndEnterJudge(t *testing.T) {
	s := newTestQuiz(t, Deps{}, quoteProblem)
	s.Update(specialKey(tea.KeyRight))
	if s.choice != choiceInvalid {
		t.Fatalf("choice = %d, want invalid", s.choice)
	}
	s.Update(specialKey(tea.KeyEnter))
	if s.grade == nil || s.grade.Judgment != sess.JudgmentInvalid {
		t.Fatalf("expected an invalid judgment, got %+v", s.grade)
	}
}

func TestQuiz_FeedbackTimer(t *testing.T) {
	s := newTestQuiz(t, Deps{FeedbackDuration: time.Millisecond}, loopProblem, quoteProblem)

	_, cmd := s.Update(keyPress('v'))
	if cmd == nil {
		t.Fatal("expected an auto-dismiss timer")
	}

	// A timer from older feedback is ignored.
	s.Update(feedbackDoneMsg{Seq: s.seq - 1})
	if s.feedback == feedbackNone {
		t.Fatal("stale timer dismissed feedback")
	}

	s.Update(cmd())
	if s.feedback != feedbackNone {
		t.Error("timer should dismiss feedback")
	}
	if s.state.Problem != quoteProblem {
		t.Error("expected the next problem after the timer")
	}
}

func TestQuiz_LLMExplanationArrivesAsync(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]string{
		"explanation":   "A condition needs a comparison, not an assignment.",
		"suggested_fix": "if (3 === valab) {\n\n}",
	}))
	deps := Deps{
		Explain:          explain.NewService(mock, nil),
		FeedbackDuration: time.Millisecond,
	}
	s := newTestQuiz(t, deps, equalityProblem)

	_, cmd := s.Update(keyPress('v'))
	if cmd == nil {
		t.Fatal("expected the refine command")
	}
	if s.explanation == nil || s.explanation.Source != explain.SourceRules {
		t.Fatal("rule-based text should show while the LLM works")
	}

	msg, ok := cmd().(explanationMsg)
	if !ok {
		t.Fatalf("expected explanationMsg, got %T", msg)
	}
	_, timer := s.Update(msg)
	if s.explanation.Source != explain.SourceLLM {
		t.Errorf("source = %q, want llm", s.explanation.Source)
	}
	if timer == nil {
		t.Error("auto-dismiss should start once the explanation arrives")
	}
	if !strings.Contains(s.View(100, 40), "comparison, not an assignment") {
		t.Error("view missing the LLM explanation")
	}
}

func TestQuiz_StaleExplanationIgnored(t *testing.T) {
	s := newTestQuiz(t, Deps{}, equalityProblem, loopProblem)
	s.Update(keyPress('v'))
	s.Update(keyPress(' '))

	s.Update(explanationMsg{Seq: s.seq - 1, Explanation: &explain.Explanation{Text: "late", Source: explain.SourceLLM}})
	if s.explanation != nil {
		t.Error("explanation for an earlier judgment should be dropped")
	}
}

func TestQuiz_QuitConfirm(t *testing.T) {
	s := newTestQuiz(t, Deps{}, loopProblem)
	if !s.HandlesEscape() {
		t.Fatal("quiz should own esc once started")
	}

	s.Update(specialKey(tea.KeyEscape))
	if !s.quitConfirm {
		t.Fatal("esc should open the quit confirm")
	}
	if !strings.Contains(s.View(100, 30), "End this session?") {
		t.Error("expected the quit confirm view")
	}

	s.Update(keyPress('n'))
	if s.quitConfirm {
		t.Fatal("n should close the quit confirm")
	}
	if s.grade != nil {
		t.Fatal("n in the confirm must not judge the snippet")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command to show the summary")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := replace.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement = %T, want summary screen", replace.Screen)
	}
}

func TestQuiz_QuitConfirmDefaultsToStay(t *testing.T) {
	s := newTestQuiz(t, Deps{}, loopProblem)
	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil || s.quitConfirm {
		t.Error("enter on the default choice should keep the session going")
	}
}

func TestQuiz_KeyHints(t *testing.T) {
	s := newTestQuiz(t, Deps{}, quoteProblem)
	if hints := s.KeyHints(); len(hints) != 4 || hints[0].Key != "V" {
		t.Errorf("presented hints = %+v", hints)
	}
	s.Update(keyPress('n'))
	if hints := s.KeyHints(); len(hints) != 1 {
		t.Errorf("feedback hints = %+v", hints)
	}
	s.Update(keyPress(' '))
	if hints := s.KeyHints(); len(hints) != 3 || hints[1].Key != "Tab" {
		t.Errorf("correcting hints = %+v", hints)
	}
}

func TestFlattenSnippet(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"for (let i = 0 i < 3; i++) {\n\n}", "for (let i = 0 i < 3; i++) { }"},
		{"'abc\"", "'abc\""},
		{"if (val) {\n  x\n}\n", "if (val) { x }"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := flattenSnippet(tt.in); got != tt.want {
			t.Errorf("flattenSnippet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
