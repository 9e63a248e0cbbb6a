package quiz

import (
	"github.com/abhisek/syntaxiz/internal/explain"
	sess "github.com/abhisek/syntaxiz/internal/session"
)

// sessionStartedMsg carries the state of a freshly started session.
type sessionStartedMsg struct {
	State *sess.State
}

// feedbackDoneMsg ends the feedback overlay. Seq ties it to the feedback
// that scheduled it so a stale timer cannot dismiss newer feedback.
type feedbackDoneMsg struct {
	Seq int
}

// explanationMsg delivers a refined explanation for a wrong judgment.
type explanationMsg struct {
	Seq         int
	Explanation *explain.Explanation
}
