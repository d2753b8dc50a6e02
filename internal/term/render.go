package term

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/vladimirvolkov/emojipong/internal/game"
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleHeader  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleBorder  = styleDefault.Foreground(tcell.ColorDarkGray)
	styleLeft    = styleDefault.Foreground(tcell.ColorLime)
	styleRight   = styleDefault.Foreground(tcell.ColorOrange)
	styleWall    = styleDefault.Foreground(tcell.ColorSilver)
	styleBanner  = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleNotice  = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHelp    = styleDefault.Foreground(tcell.ColorGray)
)

const (
	paddleRune = '█'
	wallRune   = '▓'
	trailRune  = '·'
)

const helpText = "W/S ↑/↓ move  ENTER start  SPACE pause  R restart  X reset  ESC exit  M mode  1-3 level  C cpu  7-9 cpu level  Q quit"

// Minimum playfield in cells, border excluded.
const (
	minFieldCols = 20
	minFieldRows = 6
)

// Renderer draws frames onto a tcell screen. Row 0 is the scoreboard, the
// last row the help line, and everything between a bordered playfield.
type Renderer struct {
	screen tcell.Screen
}

func NewRenderer(s tcell.Screen) *Renderer {
	return &Renderer{screen: s}
}

// viewport maps field coordinates onto the cells inside the border.
type viewport struct {
	x0, y0 int
	cols   int
	rows   int
	fw, fh float64
}

func (v viewport) col(x float64) int {
	c := int(x / v.fw * float64(v.cols))
	return v.x0 + min(max(c, 0), v.cols-1)
}

func (v viewport) row(y float64) int {
	r := int(y / v.fh * float64(v.rows))
	return v.y0 + min(max(r, 0), v.rows-1)
}

// span returns the first and last rows covered by [y, y+h).
func (v viewport) span(y, h float64) (int, int) {
	top := v.row(y)
	bottom := v.row(y+h) - 1
	if y+h >= v.fh {
		bottom = v.y0 + v.rows - 1
	}
	return top, max(top, bottom)
}

// DrawText puts a string on the screen, clipped to width.
func DrawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func (r *Renderer) Draw(f game.Frame, cfg game.Config, status string) {
	s := r.screen
	s.SetStyle(styleDefault)
	s.Clear()

	w, h := s.Size()
	v := viewport{x0: 1, y0: 2, cols: w - 2, rows: h - 4, fw: cfg.FieldWidth, fh: cfg.FieldHeight}
	if v.cols < minFieldCols || v.rows < minFieldRows {
		DrawText(s, 0, 0, "TERMINAL TOO SMALL", styleNotice)
		DrawText(s, 0, 1, fmt.Sprintf("need %dx%d", minFieldCols+2, minFieldRows+4), styleHelp)
		s.Show()
		return
	}

	r.drawScoreboard(f, w)
	r.drawBorder(w, h)

	if f.Wall != nil {
		r.drawPaddle(v, *f.Wall, wallRune, styleWall)
	}
	r.drawPaddle(v, f.Left, paddleRune, styleLeft)
	if f.Right != nil {
		r.drawPaddle(v, *f.Right, paddleRune, styleRight)
	}
	for _, b := range f.Balls {
		r.drawTrail(v, b.Trail)
	}
	for _, b := range f.Balls {
		tag := []rune(b.Tag)
		if len(tag) == 0 {
			continue
		}
		s.SetContent(v.col(b.X), v.row(b.Y), tag[0], tag[1:], styleDefault)
	}

	r.drawBanner(f, v)

	footer := helpText
	footerStyle := styleHelp
	if status != "" {
		footer, footerStyle = status, styleNotice
	}
	DrawText(s, 0, h-1, footer, footerStyle)

	s.Show()
}

func (r *Renderer) drawScoreboard(f game.Frame, w int) {
	rightName := "P2"
	switch {
	case f.Mode == game.ModeOnePlayer:
		rightName = "WALL"
	case f.AIEnabled:
		rightName = "CPU"
	}

	DrawText(r.screen, 1, 0, fmt.Sprintf("P1 %d", f.Score[0]), styleLeft)

	settings := fmt.Sprintf("%s %s", modeLabel(f.Mode), strings.ToUpper(f.Difficulty.String()))
	if f.AIEnabled {
		settings += " CPU " + strings.ToUpper(f.AIDifficulty.String())
	}
	DrawText(r.screen, (w-len(settings))/2, 0, settings, styleHeader)

	right := fmt.Sprintf("%s %d", rightName, f.Score[1])
	DrawText(r.screen, w-1-len(right), 0, right, styleRight)
}

func modeLabel(m game.Mode) string {
	if m == game.ModeOnePlayer {
		return "1P"
	}
	return "2P"
}

func (r *Renderer) drawBorder(w, h int) {
	s := r.screen
	top, bottom := 1, h-2
	for x := 1; x < w-1; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, styleBorder)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, styleBorder)
	}
	for y := top + 1; y < bottom; y++ {
		s.SetContent(0, y, tcell.RuneVLine, nil, styleBorder)
		s.SetContent(w-1, y, tcell.RuneVLine, nil, styleBorder)
	}
	s.SetContent(0, top, tcell.RuneULCorner, nil, styleBorder)
	s.SetContent(w-1, top, tcell.RuneURCorner, nil, styleBorder)
	s.SetContent(0, bottom, tcell.RuneLLCorner, nil, styleBorder)
	s.SetContent(w-1, bottom, tcell.RuneLRCorner, nil, styleBorder)
}

func (r *Renderer) drawPaddle(v viewport, p game.PaddleView, ch rune, style tcell.Style) {
	col := v.col(p.X)
	top, bottom := v.span(p.Y, p.Height)
	for y := top; y <= bottom; y++ {
		r.screen.SetContent(col, y, ch, nil, style)
	}
}

// drawTrail fades older points toward the background.
func (r *Renderer) drawTrail(v viewport, trail []game.TrailPoint) {
	for _, p := range trail {
		level := int32(40 + 200*p.Age/game.TrailAge)
		style := styleDefault.Foreground(tcell.NewRGBColor(level, level, level))
		r.screen.SetContent(v.col(p.X), v.row(p.Y), trailRune, nil, style)
	}
}

func (r *Renderer) drawBanner(f game.Frame, v viewport) {
	var lines []string
	style := styleBanner
	switch f.Phase {
	case game.PhaseIdle:
		if f.Notice != "" {
			lines = append(lines, f.Notice)
			style = styleNotice
		}
		lines = append(lines, "EMOJI PONG", "PRESS ENTER TO START")
	case game.PhasePaused:
		lines = append(lines, "PAUSED", "SPACE TO RESUME")
	case game.PhaseOver:
		lines = append(lines, f.Message, "PRESS ENTER TO PLAY AGAIN")
	default:
		return
	}

	y := v.y0 + (v.rows-len(lines))/2
	for i, line := range lines {
		x := v.x0 + (v.cols-len([]rune(line)))/2
		st := styleBanner
		if i == 0 {
			st = style
		}
		DrawText(r.screen, x, y+i, line, st)
	}
}
