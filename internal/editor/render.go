package editor

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Render draws the buffer, status line and prompt line.
func (e *Editor) Render(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	viewHeight := h - 2
	if viewHeight < 1 {
		return
	}
	e.updateScroll(viewHeight)

	defStyle := tcell.StyleDefault
	for row := 0; row < viewHeight; row++ {
		line := e.scrollRow + row
		if line >= e.buf.LineCount() {
			s.SetContent(0, row, '~', nil, defStyle.Dim(true))
			continue
		}
		col := 0
		for _, r := range e.buf.LineText(line) {
			if col >= w {
				break
			}
			if r == '\t' {
				next := (col/e.cfg.Editor.TabWidth + 1) * e.cfg.Editor.TabWidth
				for ; col < next && col < w; col++ {
					s.SetContent(col, row, ' ', nil, defStyle)
				}
				continue
			}
			s.SetContent(col, row, r, nil, defStyle)
			col++
		}
	}

	e.renderStatusLine(s, w, h-2)
	e.renderPromptLine(s, w, h-1)

	curLine := e.buf.LineOf(e.buf.Pos())
	curCol := e.visualCol(curLine, e.buf.ColOf(e.buf.Pos()))
	if curLine >= e.scrollRow && curLine < e.scrollRow+viewHeight {
		s.ShowCursor(curCol, curLine-e.scrollRow)
	} else {
		s.HideCursor()
	}
	s.Show()
}

func (e *Editor) updateScroll(viewHeight int) {
	line := e.buf.LineOf(e.buf.Pos())
	if line < e.scrollRow {
		e.scrollRow = line
	}
	if line >= e.scrollRow+viewHeight {
		e.scrollRow = line - viewHeight + 1
	}
}

// visualCol expands tabs for cursor placement.
func (e *Editor) visualCol(line, col int) int {
	text := []rune(e.buf.LineText(line))
	visual := 0
	for i := 0; i < col && i < len(text); i++ {
		if text[i] == '\t' {
			visual = (visual/e.cfg.Editor.TabWidth + 1) * e.cfg.Editor.TabWidth
			continue
		}
		visual++
	}
	return visual
}

func (e *Editor) renderStatusLine(s tcell.Screen, w, row int) {
	style := tcell.StyleDefault.Reverse(true)
	line := e.buf.LineOf(e.buf.Pos())
	col := e.buf.ColOf(e.buf.Pos())
	left := fmt.Sprintf(" %s  %s", e.mode, e.buf.Path())
	if e.branch != "" {
		left += "  [" + e.branch + "]"
	}
	right := fmt.Sprintf("%d:%d ", line+1, col+1)
	text := []rune(left)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(text) {
			r = text[x]
		}
		if x >= w-len(right) {
			r = []rune(right)[x-(w-len(right))]
		}
		s.SetContent(x, row, r, nil, style)
	}
}

func (e *Editor) renderPromptLine(s tcell.Screen, w, row int) {
	var text string
	if e.mode == ModePrompt {
		text = string(e.promptKind) + string(e.prompt)
	} else {
		text = e.status
	}
	runes := []rune(text)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		s.SetContent(x, row, r, nil, tcell.StyleDefault)
	}
	if e.mode == ModePrompt && len(runes) < w {
		s.ShowCursor(len(runes), row)
	}
}
