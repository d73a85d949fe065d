package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minefield/internal/mines"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsForfeit wsCommand = "r" // =)
)

type command struct {
	kind wsCommand
	x, y int
}

func parseXY(args []string) (x int, y int, err error) {
	if len(args) != 2 {
		err = fmt.Errorf("expected two coordinates, got %d", len(args))
		return
	}
	if x, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("second argument must be an int")
		return
	}
	return
}

func parseCommand(line string, params mines.GameParams) (command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return command{}, fmt.Errorf("empty command")
	}
	cmd := command{kind: wsCommand(tokens[0])}
	args := tokens[1:]

	switch cmd.kind {
	case wsNoop, wsForfeit:
		if len(args) != 0 {
			return command{}, fmt.Errorf("command %q takes no arguments", cmd.kind)
		}
		return cmd, nil
	case wsOpen, wsFlag, wsChord:
		x, y, err := parseXY(args)
		if err != nil {
			return command{}, err
		}
		if !params.InBounds(x, y) {
			return command{}, mines.IndexError{X: x, Y: y, Width: params.Width, Height: params.Height}
		}
		cmd.x, cmd.y = x, y
		return cmd, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", cmd.kind)
	}
}

// parseCommands splits a frame into commands, one per line. Blank lines are
// skipped. A frame with any bad line is rejected whole.
func parseCommands(message string, params mines.GameParams) ([]command, error) {
	var cmds []command
	for i, line := range strings.Split(message, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := parseCommand(line, params)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadQuery, i+1, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (c command) apply(m *mines.Minefield) error {
	switch c.kind {
	case wsOpen:
		return m.Open(c.x, c.y)
	case wsFlag:
		return m.ToggleFlag(c.x, c.y)
	case wsChord:
		return m.Chord(c.x, c.y)
	case wsForfeit:
		m.Forfeit()
	}
	return nil
}

// execute applies cmds in order and stops once the game is over.
func execute(m *mines.Minefield, cmds []command) error {
	for _, cmd := range cmds {
		if !m.Active() {
			break
		}
		if err := cmd.apply(m); err != nil {
			return err
		}
	}
	return nil
}
