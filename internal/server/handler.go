package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/abhisek/syntaxiz/internal/explain"
	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/server/response"
	"github.com/abhisek/syntaxiz/internal/session"
)

// SessionHandler serves the quiz API.
type SessionHandler struct {
	engine    *session.Engine
	registry  Registry
	explainer *explain.Service
	locks     *keyedMutex
	logger    *zap.SugaredLogger
}

// NewSessionHandler creates a handler. explainer may be nil, in which case
// wrong judgments carry no explanation.
func NewSessionHandler(engine *session.Engine, registry Registry, explainer *explain.Service, logger *zap.SugaredLogger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SessionHandler{
		engine:    engine,
		registry:  registry,
		explainer: explainer,
		locks:     newKeyedMutex(),
		logger:    logger,
	}
}

// RegisterRoutes registers the API routes for SessionHandler.
func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sessions", h.StartSession).Methods("POST")
	router.HandleFunc("/api/sessions/{sessionId}", h.GetSession).Methods("GET")
	router.HandleFunc("/api/sessions/{sessionId}", h.EndSession).Methods("DELETE")
	router.HandleFunc("/api/sessions/{sessionId}/judgment", h.Judge).Methods("POST")
	router.HandleFunc("/api/sessions/{sessionId}/correction", h.Correct).Methods("POST")
	router.HandleFunc("/api/sessions/{sessionId}/next", h.Next).Methods("POST")
	router.HandleFunc("/api/check", h.Check).Methods("POST")
	router.HandleFunc("/api/categories", h.Categories).Methods("GET")
	router.HandleFunc("/healthz", h.Health).Methods("GET")
}

// StartSession creates a session and presents its first problem.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Start(r.Context())
	if err := h.registry.Put(r.Context(), st); err != nil {
		h.fail(w, "Failed to store session", err)
		return
	}

	h.logger.Infow("session started", "session_id", st.ID)
	response.WriteJSON(w, http.StatusCreated, startResponse{
		SessionID: st.ID,
		Problem:   viewProblem(st.Problem),
		Phase:     st.Phase,
	})
}

// GetSession returns the session's live problem and counters.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.registry.Get(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		h.fail(w, "Failed to load session", err)
		return
	}
	response.WriteSuccess(w, viewSession(st))
}

// Judge grades a valid/invalid judgment of the live problem.
func (h *SessionHandler) Judge(w http.ResponseWriter, r *http.Request) {
	var req judgmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request")
		return
	}
	j, err := session.ParseJudgment(req.Judgment)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	id := mux.Vars(r)["sessionId"]
	unlock := h.locks.Lock(id)
	defer unlock()

	st, err := h.registry.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to load session", err)
		return
	}
	judged := st.Problem

	g, err := h.engine.Judge(r.Context(), st, j)
	if err != nil {
		h.fail(w, "Failed to grade judgment", err)
		return
	}
	if err := h.registry.Put(r.Context(), st); err != nil {
		h.fail(w, "Failed to store session", err)
		return
	}

	resp := judgmentResponse{
		Correct: g.Correct,
		Actual:  g.Actual,
		Variant: judged.Variant,
		Phase:   st.Phase,
		Failure: g.Failure,
	}
	if !g.Correct && h.explainer != nil {
		resp.Explanation = h.explainer.Refine(r.Context(), explain.Request{
			Problem: judged,
			Failure: g.Failure,
		})
	}
	response.WriteSuccess(w, resp)
}

// Correct grades a revision of the live problem.
func (h *SessionHandler) Correct(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request")
		return
	}

	id := mux.Vars(r)["sessionId"]
	unlock := h.locks.Lock(id)
	defer unlock()

	st, err := h.registry.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to load session", err)
		return
	}

	cr, err := h.engine.SubmitCorrection(r.Context(), st, req.Code)
	if err != nil {
		h.fail(w, "Failed to grade correction", err)
		return
	}
	if err := h.registry.Put(r.Context(), st); err != nil {
		h.fail(w, "Failed to store session", err)
		return
	}

	response.WriteSuccess(w, correctionResponse{
		Accepted: cr.Accepted,
		Failure:  cr.Failure,
		Phase:    st.Phase,
		Problem:  viewProblem(st.Problem),
	})
}

// Next skips to a new problem once the live one is graded.
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	unlock := h.locks.Lock(id)
	defer unlock()

	st, err := h.registry.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to load session", err)
		return
	}
	if err := h.engine.Next(r.Context(), st); err != nil {
		h.fail(w, "Failed to advance session", err)
		return
	}
	if err := h.registry.Put(r.Context(), st); err != nil {
		h.fail(w, "Failed to store session", err)
		return
	}
	response.WriteSuccess(w, nextResponse{Problem: viewProblem(st.Problem), Phase: st.Phase})
}

// EndSession records the end of the session, forgets it and returns its summary.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	unlock := h.locks.Lock(id)
	defer unlock()

	st, err := h.registry.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to load session", err)
		return
	}
	sum := h.engine.End(r.Context(), st)
	if err := h.registry.Delete(r.Context(), id); err != nil {
		h.fail(w, "Failed to delete session", err)
		return
	}

	h.logger.Infow("session ended", "session_id", id, "judgments", sum.Judgments, "accuracy", sum.Accuracy)
	response.WriteSuccess(w, sum)
}

// Check parse-checks arbitrary code.
func (h *SessionHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request")
		return
	}
	res := h.engine.Checker().Check(req.Code)
	response.WriteSuccess(w, checkResponse{Valid: res.Valid(), Failure: res.Failure})
}

// Categories lists the taxonomy.
func (h *SessionHandler) Categories(w http.ResponseWriter, _ *http.Request) {
	response.WriteSuccess(w, map[string]any{"categories": viewCategories(problemgen.AllCategories())})
}

func (h *SessionHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.WriteSuccess(w, map[string]string{"status": "ok"})
}

func badRequest(w http.ResponseWriter, msg string) {
	response.WriteError(w, response.ErrorMessage{Message: msg, StatusCode: http.StatusBadRequest})
}

// fail maps domain errors to status codes. Unexpected errors are logged
// and reported as 500 with msg.
func (h *SessionHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, session.ErrWrongPhase), errors.Is(err, session.ErrNoProblem):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, session.ErrUnknownJudgment):
		status = http.StatusBadRequest
		msg = err.Error()
	default:
		h.logger.Errorw(msg, "error", err)
	}
	response.WriteError(w, response.ErrorMessage{Message: msg, StatusCode: status})
}
