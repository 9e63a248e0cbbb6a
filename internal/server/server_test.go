package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syntaxiz/internal/explain"
	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/session"
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
	quoteProblem = &problemgen.Problem{
		Text:     "'abc\"",
		Category: problemgen.CategoryQuotes,
		Variant:  problemgen.VariantQuotesMismatched,
	}
	loopProblem = &problemgen.Problem{
		Text:        "for (let x = 0; x < 5; x++) {\n\n}",
		Category:    problemgen.CategoryForLoop,
		Variant:     problemgen.VariantLoopCorrect,
		ExpectValid: true,
	}
)

func newTestServer(t *testing.T, problems ...*problemgen.Problem) (http.Handler, *MemoryRegistry) {
	t.Helper()
	engine := session.NewEngine(&scriptedGen{problems: problems}, syntaxcheck.New(), session.Options{})
	reg := NewMemoryRegistry(time.Hour)
	srv, err := New(Options{
		Engine:    engine,
		Registry:  reg,
		Explainer: explain.NewService(nil, nil),
	})
	require.NoError(t, err)
	return srv.Handler(), reg
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func startSession(t *testing.T, h http.Handler) startResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[startResponse](t, rec)
}

func TestSessionFlow_CorrectionAccepted(t *testing.T) {
	h, _ := newTestServer(t, quoteProblem, loopProblem)

	rec := do(t, h, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "variant", "the answer must stay hidden")
	start := decode[startResponse](t, rec)
	require.NotEmpty(t, start.SessionID)
	assert.Equal(t, session.PhasePresented, start.Phase)
	assert.Equal(t, quoteProblem.Text, start.Problem.Text)

	base := "/api/sessions/" + start.SessionID

	rec = do(t, h, http.MethodPost, base+"/judgment", judgmentRequest{Judgment: "invalid"})
	require.Equal(t, http.StatusOK, rec.Code)
	jr := decode[judgmentResponse](t, rec)
	assert.True(t, jr.Correct)
	assert.Equal(t, session.JudgmentInvalid, jr.Actual)
	assert.Equal(t, problemgen.VariantQuotesMismatched, jr.Variant)
	assert.Equal(t, session.PhaseCorrecting, jr.Phase)
	require.NotNil(t, jr.Failure)
	assert.Nil(t, jr.Explanation, "correct judgments carry no explanation")

	rec = do(t, h, http.MethodPost, base+"/correction", correctionRequest{Code: "'abc"})
	require.Equal(t, http.StatusOK, rec.Code)
	cr := decode[correctionResponse](t, rec)
	assert.False(t, cr.Accepted)
	assert.NotNil(t, cr.Failure)
	assert.Equal(t, session.PhaseCorrecting, cr.Phase)

	rec = do(t, h, http.MethodPost, base+"/correction", correctionRequest{Code: "'abc'"})
	require.Equal(t, http.StatusOK, rec.Code)
	cr = decode[correctionResponse](t, rec)
	assert.True(t, cr.Accepted)
	assert.Equal(t, session.PhasePresented, cr.Phase)
	assert.Equal(t, loopProblem.Text, cr.Problem.Text)

	rec = do(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[sessionResponse](t, rec)
	assert.Equal(t, 2, view.ProblemsServed)
	assert.Equal(t, 1, view.CorrectJudgments)
	assert.Equal(t, 2, view.CorrectionAttempts)
	assert.Equal(t, 1, view.CorrectionsAccepted)

	rec = do(t, h, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[session.Summary](t, rec)
	assert.Equal(t, start.SessionID, sum.SessionID)
	assert.Equal(t, 1, sum.Judgments)
	assert.InDelta(t, 1.0, sum.Accuracy, 1e-9)

	rec = do(t, h, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionFlow_WrongJudgmentExplained(t *testing.T) {
	h, _ := newTestServer(t, loopProblem, quoteProblem)
	start := startSession(t, h)
	base := "/api/sessions/" + start.SessionID

	rec := do(t, h, http.MethodPost, base+"/judgment", judgmentRequest{Judgment: "i"})
	require.Equal(t, http.StatusOK, rec.Code)
	jr := decode[judgmentResponse](t, rec)
	assert.False(t, jr.Correct)
	assert.Equal(t, session.JudgmentValid, jr.Actual)
	assert.Equal(t, session.PhaseGraded, jr.Phase)
	require.NotNil(t, jr.Explanation)
	assert.Equal(t, explain.SourceRules, jr.Explanation.Source)

	// No correction is owed after a wrong judgment.
	rec = do(t, h, http.MethodPost, base+"/correction", correctionRequest{Code: "1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/judgment", judgmentRequest{Judgment: "valid"})
	assert.Equal(t, http.StatusConflict, rec.Code, "judging twice is a phase error")

	rec = do(t, h, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	nr := decode[nextResponse](t, rec)
	assert.Equal(t, session.PhasePresented, nr.Phase)
	assert.Equal(t, quoteProblem.Text, nr.Problem.Text)

	rec = do(t, h, http.MethodPost, base+"/next", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "next needs a graded problem")
}

func TestBadRequests(t *testing.T) {
	h, _ := newTestServer(t, loopProblem)
	start := startSession(t, h)
	base := "/api/sessions/" + start.SessionID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown judgment", http.MethodPost, base + "/judgment", judgmentRequest{Judgment: "maybe"}, http.StatusBadRequest},
		{"malformed judgment body", http.MethodPost, base + "/judgment", "{", http.StatusBadRequest},
		{"malformed correction body", http.MethodPost, base + "/correction", "nope", http.StatusBadRequest},
		{"malformed check body", http.MethodPost, "/api/check", "[", http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/sessions/does-not-exist", nil, http.StatusNotFound},
		{"judge unknown session", http.MethodPost, "/api/sessions/does-not-exist/judgment", judgmentRequest{Judgment: "valid"}, http.StatusNotFound},
		{"end unknown session", http.MethodDelete, "/api/sessions/does-not-exist", nil, http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/check", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	// The failed requests left the session untouched.
	view := decode[sessionResponse](t, do(t, h, http.MethodGet, base, nil))
	assert.Equal(t, session.PhasePresented, view.Phase)
	assert.Equal(t, 0, view.Judgments)
}

func TestCheckEndpoint(t *testing.T) {
	h, _ := newTestServer(t, loopProblem)

	rec := do(t, h, http.MethodPost, "/api/check", checkRequest{Code: "if (3 === valab) {\n\n}"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[checkResponse](t, rec)
	assert.True(t, res.Valid)
	assert.Nil(t, res.Failure)

	rec = do(t, h, http.MethodPost, "/api/check", checkRequest{Code: "if (valx) {\n\n)"})
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[checkResponse](t, rec)
	assert.False(t, res.Valid)
	require.NotNil(t, res.Failure)
	assert.Equal(t, 3, res.Failure.Line)
	assert.NotEmpty(t, res.Failure.Message)
}

func TestCategoriesAndHealth(t *testing.T) {
	h, _ := newTestServer(t, loopProblem)

	rec := do(t, h, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Categories []categoryView `json:"categories"`
	}](t, rec)
	require.Len(t, body.Categories, len(problemgen.AllCategories()))
	assert.Equal(t, problemgen.CategoryForLoop, body.Categories[0].Category)
	assert.Len(t, body.Categories[0].Variants, 3)

	rec = do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{Registry: NewMemoryRegistry(0)})
	assert.Error(t, err)

	engine := session.NewEngine(&scriptedGen{problems: []*problemgen.Problem{loopProblem}}, syntaxcheck.New(), session.Options{})
	_, err = New(Options{Engine: engine})
	assert.Error(t, err)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	engine := session.NewEngine(&scriptedGen{problems: []*problemgen.Problem{loopProblem}}, syntaxcheck.New(), session.Options{})
	srv, err := New(Options{Addr: "127.0.0.1:0", Engine: engine, Registry: NewMemoryRegistry(0)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
