// Package editor is the modal glue between terminal key events and the
// command core: it feeds key tokens to the motion dispatcher, runs
// operators through the command binder and drives tag navigation.
package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ryabkov/vicmd/internal/config"
	"github.com/ryabkov/vicmd/internal/logger"
	"github.com/ryabkov/vicmd/internal/motion"
	"github.com/ryabkov/vicmd/internal/session"
	"github.com/ryabkov/vicmd/internal/tags"
	"github.com/ryabkov/vicmd/internal/textbuf"
)

// Mode is the editor's input mode.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeOperator
	ModeInsert
	ModePrompt
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeOperator:
		return "OPERATOR"
	case ModeInsert:
		return "INSERT"
	case ModePrompt:
		return "PROMPT"
	default:
		return "?"
	}
}

// Editor owns one editing session: a buffer, the motion dispatch state
// and a tag navigation stack.
type Editor struct {
	cfg    config.Config
	buf    *textbuf.Buffer
	table  *motion.Table
	disp   *motion.Dispatcher
	binder *motion.Binder
	index  *tags.Index
	stack  *tags.Stack
	sess   *session.Manager

	mode        Mode
	bound       *motion.Bound
	boundOp     rune
	opCount     int
	pending     *motion.PendingMotion
	pendingInOp bool
	prompt      []rune
	promptKind  rune
	pendingMark bool
	marks       map[rune]int

	status    string
	branch    string
	scrollRow int
	quit      bool
}

// New creates an editor over an empty unnamed buffer.
func New(cfg config.Config, ix *tags.Index) *Editor {
	e := &Editor{
		cfg:   cfg,
		buf:   textbuf.New("", ""),
		index: ix,
		stack: tags.NewStack(ix, cfg.Editor.MaxStackDepth),
		marks: make(map[rune]int),
	}

	e.table = motion.DefaultTable()
	for key, name := range cfg.Keymap.Motions {
		runes := []rune(key)
		if len(runes) != 1 {
			logger.Warn("ignoring multi-key motion remap", "key", key)
			continue
		}
		if !e.table.Rebind(runes[0], name) {
			logger.Warn("unknown motion in keymap", "key", key, "motion", name)
		}
	}
	e.bindMarkMotions()

	e.disp = motion.NewDispatcher(e.table)
	e.binder = motion.NewBinder(motion.NewSelTable(e.table))
	return e
}

// bindMarkMotions registers 'a..'z under the ' sub-table, each closing
// over this editor's mark map.
func (e *Editor) bindMarkMotions() {
	for r := 'a'; r <= 'z'; r++ {
		mark := r
		e.table.BindSub('\'', mark, motion.Motion{
			Name:  "mark-" + string(mark),
			Class: motion.ClassLinewise,
			Move: func(b motion.Buffer, count int) {
				if pos, ok := e.marks[mark]; ok {
					b.SetPos(b.LineStart(b.LineOf(pos)))
				}
			},
		})
	}
}

// SetSessionManager attaches persistence for per-file cursor state.
func (e *Editor) SetSessionManager(sm *session.Manager) { e.sess = sm }

// SetGitBranch sets the branch shown in the status line.
func (e *Editor) SetGitBranch(branch string) { e.branch = branch }

// SetStatusMessage replaces the status-line message.
func (e *Editor) SetStatusMessage(msg string) { e.status = msg }

// Status returns the current status-line message.
func (e *Editor) Status() string { return e.status }

// Mode returns the current input mode.
func (e *Editor) Mode() Mode { return e.mode }

// Buffer exposes the active buffer.
func (e *Editor) Buffer() *textbuf.Buffer { return e.buf }

// TagStack exposes the navigation stack.
func (e *Editor) TagStack() *tags.Stack { return e.stack }

// OpenFile loads path into the buffer, remembering the previous file's
// cursor state and restoring any saved state for the new one.
func (e *Editor) OpenFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	buf, err := textbuf.Load(abs)
	if err != nil {
		return err
	}
	e.rememberFileState()
	e.buf = buf
	e.scrollRow = 0
	if e.sess != nil {
		if st, ok := e.sess.GetFileState(abs); ok {
			e.buf.SetPos(st.CursorPos)
			e.scrollRow = st.ScrollRow
		}
	}
	logger.Info("opened file", "path", abs, "lines", buf.LineCount())
	return nil
}

func (e *Editor) rememberFileState() {
	if e.sess == nil || e.buf.Path() == "" {
		return
	}
	e.sess.SetFileState(e.buf.Path(), session.FileState{
		CursorPos: e.buf.Pos(),
		ScrollRow: e.scrollRow,
	})
}

// Shutdown flushes session state.
func (e *Editor) Shutdown() {
	e.rememberFileState()
	if e.sess != nil {
		e.sess.Stop()
	}
}

// HandleKey processes one key event. It returns true when the editor
// should quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	switch e.mode {
	case ModeInsert:
		e.handleInsertKey(ev)
	case ModePrompt:
		e.handlePromptKey(ev)
	case ModeOperator:
		e.handleOperatorKey(ev)
	default:
		e.handleNormalKey(ev)
	}
	return e.quit
}

func (e *Editor) handleNormalKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlRightSq: // Ctrl-]
		e.jumpToTag()
		return
	case tcell.KeyCtrlT:
		e.popTag()
		return
	case tcell.KeyEscape:
		e.disp.Reset()
		e.pendingMark = false
		e.status = ""
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	if e.pendingMark {
		e.pendingMark = false
		if r >= 'a' && r <= 'z' {
			e.marks[r] = e.buf.Pos()
		}
		return
	}
	if r == 'm' && e.disp.Count() == 0 {
		e.pendingMark = true
		return
	}
	if r == ':' {
		e.startPrompt(':')
		return
	}
	if r == 'i' && e.disp.Count() == 0 {
		e.enterInsert()
		return
	}
	if r == 'd' || r == 'c' {
		e.startOperator(r)
		return
	}

	res := e.disp.Feed(r)
	switch res.Status {
	case motion.StatusResolved:
		e.status = ""
		res.Motion.Run(e.buf)
	case motion.StatusNeedsInput:
		e.pending = res.Pending
		e.pendingInOp = false
		if res.Pending.Kind == motion.SearchBackward {
			e.startPrompt('?')
		} else {
			e.startPrompt('/')
		}
	case motion.StatusUnknown:
		// Unknown key sequence is a no-op.
	}
}

// startOperator opens a bound dispatch surface for op ('d' or 'c').
// A count typed before the operator is captured and multiplied with any
// count typed after it.
func (e *Editor) startOperator(op rune) {
	e.opCount = e.disp.Count()
	e.disp.Reset()
	e.boundOp = op
	extra := map[rune]motion.RangeMotion{
		// Doubling the operator key means the whole current line.
		op: {Name: "line", Class: motion.ClassLinewise, Span: e.spanLines},
	}
	e.bound = e.binder.Bind(extra, func(rm motion.RangeMotion) func() {
		return func() { e.applyRange(op, rm) }
	})
	e.mode = ModeOperator
}

func (e *Editor) handleOperatorKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape {
		e.bound = nil
		e.mode = ModeNormal
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}
	res := e.bound.Feed(ev.Rune())
	switch res.Status {
	case motion.StatusResolved:
		e.mode = ModeNormal
		res.Action()
	case motion.StatusNeedsInput:
		e.pending = res.Pending
		e.pendingInOp = true
		if res.Pending.Kind == motion.SearchBackward {
			e.startPrompt('?')
		} else {
			e.startPrompt('/')
		}
	case motion.StatusUnknown:
		e.bound = nil
		e.mode = ModeNormal
	}
}

// spanLines is the linewise range for a doubled operator (dd, cc):
// count whole lines starting at the cursor line.
func (e *Editor) spanLines(b motion.Buffer, count int) (int, int, bool) {
	if count <= 0 {
		count = 1
	}
	line := b.LineOf(b.Pos())
	last := line + count - 1
	if max := b.LineCount() - 1; last > max {
		last = max
	}
	start := b.LineStart(line)
	end := b.LineEnd(last)
	if end < b.Len() {
		end++ // take the trailing newline
	}
	return start, end, true
}

// applyRange executes an operator over a resolved range motion.
func (e *Editor) applyRange(op rune, rm motion.RangeMotion) {
	count := combineCounts(e.opCount, rm.Count)
	e.opCount = 0
	rm.Count = count
	start, end, ok := rm.Span(e.buf, count)
	if !ok {
		return
	}
	if rm.Class == motion.ClassLinewise && rm.Name != "line" {
		start = e.buf.LineStart(e.buf.LineOf(start))
		end = e.buf.LineEnd(e.buf.LineOf(end))
		if end < e.buf.Len() {
			end++
		}
	}
	e.buf.Delete(start, end)
	if op == 'c' {
		e.enterInsert()
	}
}

// combineCounts multiplies pre- and post-operator counts; 2d3w acts on
// six words. Zero on both sides stays zero (no explicit count).
func combineCounts(pre, post int) int {
	if pre <= 0 && post <= 0 {
		return 0
	}
	if pre <= 0 {
		pre = 1
	}
	if post <= 0 {
		post = 1
	}
	return pre * post
}

func (e *Editor) enterInsert() {
	e.mode = ModeInsert
	e.status = "-- INSERT --"
}

func (e *Editor) handleInsertKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		e.mode = ModeNormal
		e.status = ""
	case tcell.KeyEnter:
		e.buf.Insert(e.buf.Pos(), "\n")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if pos := e.buf.Pos(); pos > 0 {
			e.buf.Delete(pos-1, pos)
		}
	case tcell.KeyTab:
		e.buf.Insert(e.buf.Pos(), "\t")
	case tcell.KeyRune:
		e.buf.Insert(e.buf.Pos(), string(ev.Rune()))
	}
}

func (e *Editor) startPrompt(kind rune) {
	e.mode = ModePrompt
	e.promptKind = kind
	e.prompt = e.prompt[:0]
	e.status = ""
}

func (e *Editor) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		// Discarding a pending motion cancels it; nothing to undo.
		e.pending = nil
		e.bound = nil
		e.mode = ModeNormal
	case tcell.KeyEnter:
		text := string(e.prompt)
		kind := e.promptKind
		e.mode = ModeNormal
		e.commitPrompt(kind, text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(e.prompt) > 0 {
			e.prompt = e.prompt[:len(e.prompt)-1]
		}
	case tcell.KeyRune:
		e.prompt = append(e.prompt, ev.Rune())
	}
}

func (e *Editor) commitPrompt(kind rune, text string) {
	if kind == ':' {
		e.execCommand(text)
		return
	}
	p := e.pending
	e.pending = nil
	if p == nil || text == "" {
		return
	}
	if e.pendingInOp {
		bound := e.bound
		e.bound = nil
		if bound == nil {
			return
		}
		if res := bound.Complete(p, text); res.Status == motion.StatusResolved {
			res.Action()
		}
		return
	}
	m := p.Complete(text)
	before := e.buf.Pos()
	m.Run(e.buf)
	if e.buf.Pos() == before {
		e.status = "not found: " + text
	}
}

// execCommand runs a : command line.
func (e *Editor) execCommand(cmd string) {
	name, arg, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	switch name {
	case "q", "quit":
		e.quit = true
	case "w", "write":
		if err := e.buf.Save(); err != nil {
			e.status = err.Error()
			return
		}
		e.status = fmt.Sprintf("%q written", e.buf.Path())
	case "wq":
		if err := e.buf.Save(); err != nil {
			e.status = err.Error()
			return
		}
		e.quit = true
	case "tag":
		if arg == "" {
			e.status = "usage: tag {symbol}"
			return
		}
		e.jumpTo(arg)
	case "tn", "tnext":
		if rec, ok := e.stack.Next(); ok {
			e.gotoRecord(rec)
		} else {
			e.status = "no more matching tags"
		}
	case "tp", "tprev":
		if rec, ok := e.stack.Prev(); ok {
			e.gotoRecord(rec)
		} else {
			e.status = "no more matching tags"
		}
	case "retag":
		e.index.Reload()
		e.status = "tag table reloaded"
	case "":
	default:
		e.status = "unknown command: " + name
	}
}

// jumpToTag jumps to the definition of the symbol under the cursor.
func (e *Editor) jumpToTag() {
	sym := e.wordUnderCursor()
	if sym == "" {
		e.status = "no identifier under cursor"
		return
	}
	e.jumpTo(sym)
}

func (e *Editor) jumpTo(sym string) {
	rec, err := e.stack.Jump(sym, e.buf.Path(), e.buf.Pos())
	if err != nil {
		e.status = err.Error()
		return
	}
	e.gotoRecord(rec)
}

// gotoRecord opens the record's file and resolves its locate-expression.
func (e *Editor) gotoRecord(rec tags.Record) {
	if rec.File != e.buf.Path() {
		if err := e.OpenFile(rec.File); err != nil {
			e.status = err.Error()
			return
		}
	}
	pos, err := tags.Resolve(rec, e.buf)
	if err != nil {
		e.status = err.Error()
		return
	}
	e.buf.SetPos(pos)
	e.status = ""
}

// popTag returns to where the last jump came from.
func (e *Editor) popTag() {
	file, pos, err := e.stack.Pop()
	if err != nil {
		e.status = err.Error()
		return
	}
	if file != "" && file != e.buf.Path() {
		if err := e.OpenFile(file); err != nil {
			e.status = err.Error()
			return
		}
	}
	e.buf.SetPos(pos)
	e.status = ""
}

// wordUnderCursor returns the identifier at the cursor, or "".
func (e *Editor) wordUnderCursor() string {
	pos := e.buf.Pos()
	if e.buf.Len() == 0 {
		return ""
	}
	if pos >= e.buf.Len() {
		pos = e.buf.Len() - 1
	}
	if !identRune(e.buf.RuneAt(pos)) {
		return ""
	}
	start := pos
	for start > 0 && identRune(e.buf.RuneAt(start-1)) {
		start--
	}
	end := pos
	for end < e.buf.Len() && identRune(e.buf.RuneAt(end)) {
		end++
	}
	return e.buf.Slice(start, end)
}

func identRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
