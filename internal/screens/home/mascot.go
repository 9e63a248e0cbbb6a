package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // default lavender
	MascotCelebrating                      // gold, star eyes, high accuracy
	MascotPuzzled                          // amber, question mark, low accuracy
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ {;} │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ {;} │
└─╥═╥─┘
  ╚═╝`

const mascotPuzzled = `┌─────┐
│ ◉ ◔ │ ?
│  ~  │
│ {;} │
└─────┘`

// minJudgedForMood is how many judgments the mascot waits for before it
// reacts to accuracy.
const minJudgedForMood = 10

// mascotFor picks a variant from all-time accuracy.
func mascotFor(st homeStats) MascotVariant {
	if st.judged < minJudgedForMood {
		return MascotIdle
	}
	switch acc := st.accuracy(); {
	case acc >= 0.8:
		return MascotCelebrating
	case acc < 0.5:
		return MascotPuzzled
	}
	return MascotIdle
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.ArcadeYellow
	case MascotPuzzled:
		art, fg = mascotPuzzled, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
