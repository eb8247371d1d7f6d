package confirm

import (
	"github.com/gdamore/tcell/v2"
	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/geometry"
)

// maxInputLength is the longest line the screen prompt accepts.
const maxInputLength = 79

var (
	styleWarning  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleInput    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMismatch = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Screen is a full-screen version of [Phrase]. The terminal is taken over
// while the prompt is shown and restored before Confirm returns. Escape or
// Ctrl-C refuses.
type Screen struct {
	newScreen func() (tcell.Screen, error)
}

// NewScreen creates a confirmer that uses the terminal.
func NewScreen() *Screen {
	return &Screen{newScreen: tcell.NewScreen}
}

// NewScreenWith creates a confirmer that draws on `screen`, which must not
// have been initialized yet.
func NewScreenWith(screen tcell.Screen) *Screen {
	return &Screen{
		newScreen: func() (tcell.Screen, error) { return screen, nil },
	}
}

func (c *Screen) Confirm(fs geometry.Filesystem) error {
	screen, err := c.newScreen()
	if err != nil {
		return fdisk.ErrNotConfirmed.Wrap(err)
	}
	err = screen.Init()
	if err != nil {
		return fdisk.ErrNotConfirmed.Wrap(err)
	}
	defer screen.Fini()
	screen.DisableMouse()

	p := newPrompt(fs)
	p.draw(screen)

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			done, err := p.handleKey(ev)
			if done {
				return err
			}
			p.draw(screen)
		case *tcell.EventResize:
			screen.Sync()
			p.draw(screen)
		case nil:
			return fdisk.ErrNotConfirmed.WithMessage("screen closed")
		}
	}
}

// prompt holds the state of the confirmation screen between key presses.
type prompt struct {
	summary  []string
	input    []rune
	mismatch bool
}

func newPrompt(fs geometry.Filesystem) *prompt {
	return &prompt{summary: SummaryLines(fs)}
}

// handleKey updates the prompt for one key press. It returns true once the
// user has either confirmed (nil error) or refused.
func (p *prompt) handleKey(ev *tcell.EventKey) (bool, error) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, fdisk.ErrNotConfirmed.WithMessage("cancelled by user")

	case tcell.KeyEnter:
		if string(p.input) == ConfirmationPhrase {
			return true, nil
		}
		p.mismatch = true
		p.input = p.input[:0]

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}

	case tcell.KeyRune:
		if len(p.input) < maxInputLength {
			p.input = append(p.input, ev.Rune())
		}
	}
	return false, nil
}

func (p *prompt) draw(screen tcell.Screen) {
	screen.Clear()

	y := 0
	putStr(screen, 0, y, "Format SD card with a new partition table and FAT32 file system?", styleWarning)
	y += 2

	for _, line := range p.summary {
		putStr(screen, 0, y, line, tcell.StyleDefault)
		y++
	}
	y++

	putStr(screen, 0, y, PromptMessage, styleWarning)
	y++
	putStr(screen, 0, y, string(p.input), styleInput)
	screen.ShowCursor(len(p.input), y)
	y++

	if p.mismatch {
		putStr(screen, 0, y, MismatchMessage, styleMismatch)
	}
	screen.Show()
}

func putStr(screen tcell.Screen, x, y int, str string, style tcell.Style) {
	width, _ := screen.Size()
	for i, r := range []rune(str) {
		if x+i >= width {
			break
		}
		screen.SetContent(x+i, y, r, nil, style)
	}
}
