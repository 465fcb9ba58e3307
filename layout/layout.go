package layout

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/jroimartin/gocui"
)

const (
	INPUT_VIEW  = "input"
	LOGGER_VIEW = "logger"
)

type cmd struct {
	str   string
	ready bool
	m     sync.RWMutex
}

var command cmd = cmd{}

// PastCmd is the ViewManager that logs past command.
type PastCmd struct {
	name string
}

// Input box for command.
type Input struct {
	name string
	cmd  chan<- commands.Command
	ctl  chan<- commands.Command
}

type Logger struct {
	name string
}

type Manual struct {
	name string
	text string
}

func (pc *PastCmd) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Bottom left corner.
	v, err := g.SetView(pc.name, 1, maxY*2/3, maxX/3, maxY-6)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Autoscroll = true
	v.Wrap = true

	command.m.Lock()
	defer command.m.Unlock()
	if command.ready {
		fmt.Fprintln(v, "> "+command.str)
	}
	command.ready = false

	return nil
}

func (i *Input) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Bottom.
	v, err := g.SetView(i.name, 1, maxY-5, maxX-1, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Wrap = true
	v.Autoscroll = true
	v.Editor = i
	v.Editable = true
	return nil
}

func (l *Logger) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Right side.
	v, err := g.SetView(l.name, maxX/3+1, 1, maxX-1, maxY-6)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Autoscroll = true
	v.Wrap = true
	return nil
}

func (m *Manual) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Top left corner.
	v, err := g.SetView(m.name, 1, 1, maxX/3, maxY*2/3-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Wrap = true
	v.Clear()
	fmt.Fprintln(v, m.text)
	return nil
}

// Parse the line and hand it to the handler. Returns what the past command view shows.
func submit(s string, cmd chan<- commands.Command, ctl chan<- commands.Command) string {
	op, err := commands.CreateCommand(s)
	if err != nil {
		return s + "\n" + err.Error()
	}
	if err := commands.Route(op, cmd, ctl); err != nil {
		return s + "\n" + err.Error()
	}
	return s
}

func (i *Input) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	switch {
	case key == gocui.KeyEnter:
		// Read buffer.
		s := v.Buffer()
		// Remove \n from string.
		s = strings.Replace(s, "\n", "", -1)
		str := submit(s, i.cmd, i.ctl)
		command.m.Lock()
		command.str = str
		command.ready = true
		command.m.Unlock()

		// Reset cursor.
		v.Clear()
		v.SetOrigin(0, 0)
		v.SetCursor(0, 0)

	case ch != 0 && mod == 0:
		v.EditWrite(ch)
	case key == gocui.KeySpace:
		v.EditWrite(' ')
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		v.EditDelete(true)
	}
}

func SetFocus(name string) func(g *gocui.Gui) error {
	return func(g *gocui.Gui) error {
		_, err := g.SetCurrentView(name)
		return err
	}
}

// Create a GUI, using the command channel to pass command to fullnode and
// the control channel to stop a running mine.
func CreateGui(cmd chan<- commands.Command, ctl chan<- commands.Command, manual string) (*gocui.Gui, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	g.Cursor = true

	pc := &PastCmd{name: "pastcommand"}
	input := &Input{name: INPUT_VIEW, cmd: cmd, ctl: ctl}
	l := &Logger{name: LOGGER_VIEW}
	m := &Manual{name: "manual", text: manual}
	focus := gocui.ManagerFunc(SetFocus(INPUT_VIEW))
	g.SetManager(pc, input, l, m, focus)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	return g, err
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// ViewWriter forwards writes to a view, e.g. to point the log package at the logger view.
type ViewWriter struct {
	G    *gocui.Gui
	View string
}

func (w ViewWriter) Write(p []byte) (int, error) {
	msg := string(p)
	w.G.Update(func(g *gocui.Gui) error {
		v, err := g.View(w.View)
		if err != nil {
			return err
		}
		fmt.Fprint(v, msg)
		return nil
	})
	return len(p), nil
}
