package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jason-s-yu/freecell/internal/game"
)

const helpText = `Commands:
  m FROM TO   move (c1..c8 columns, f1..f4 free cells, h1..h4 foundations, or 0..15)
  u           undo
  s N         save to slot N
  l N         load slot N
  d N         delete slot N
  slots       list saved slots
  n [SEED]    new game, random when SEED is omitted
  v           print the table as JSON
  h           help
  q           quit
`

// repl reads one command per line and prints the table after each one that
// changes it.
type repl struct {
	sess *game.Session
	in   *bufio.Scanner
	out  io.Writer
}

func newREPL(sess *game.Session, in io.Reader, out io.Writer) *repl {
	return &repl{sess: sess, in: bufio.NewScanner(in), out: out}
}

// Run processes commands until quit, end of input or ctx is done.
func (r *repl) Run(ctx context.Context) error {
	if err := r.sess.Render(r.out); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}
		quit, err := r.exec(ctx, strings.Fields(r.in.Text()))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command. Only output errors are returned; game errors are
// reported to the player.
func (r *repl) exec(ctx context.Context, args []string) (quit bool, err error) {
	if len(args) == 0 {
		return false, nil
	}
	render := false

	switch cmd, rest := strings.ToLower(args[0]), args[1:]; cmd {
	case "q", "quit":
		return true, nil

	case "h", "help", "?":
		_, err = io.WriteString(r.out, helpText)

	case "m", "move":
		if len(rest) != 2 {
			r.say("usage: m FROM TO")
			break
		}
		from, ferr := game.ParseLocation(rest[0])
		to, terr := game.ParseLocation(rest[1])
		if ferr != nil || terr != nil {
			r.say("Bad location.")
			break
		}
		res := r.sess.Move(from, to)
		if !res.Moved {
			r.say("Illegal move.")
		}
		render = res.Moved || len(res.Auto) > 0

	case "u", "undo":
		if !r.sess.Undo() {
			r.say("Nothing to undo.")
			break
		}
		render = true

	case "s", "save":
		slot, ok := r.slotArg(rest)
		if !ok {
			break
		}
		if r.sess.Save(ctx, slot) != nil {
			r.say("Save Failed.")
			break
		}
		r.say(fmt.Sprintf("Saved to slot %d.", slot))

	case "l", "load":
		slot, ok := r.slotArg(rest)
		if !ok {
			break
		}
		if r.sess.Load(ctx, slot) != nil {
			r.say("Load Failed.")
			break
		}
		render = true

	case "d", "delete":
		slot, ok := r.slotArg(rest)
		if !ok {
			break
		}
		if r.sess.DeleteSlot(ctx, slot) != nil {
			r.say("Delete Failed.")
			break
		}
		r.say(fmt.Sprintf("Slot %d cleared.", slot))

	case "slots":
		list, lerr := r.sess.Slots(ctx)
		if lerr != nil {
			r.say("Listing slots failed.")
			break
		}
		if len(list) == 0 {
			r.say("No saved games.")
		}
		for _, info := range list {
			r.say(fmt.Sprintf("%3d  %4d bytes  %s", info.Slot, info.Size, info.SavedAt.Local().Format("2006-01-02 15:04:05")))
		}

	case "n", "new":
		switch len(rest) {
		case 0:
			if _, rerr := r.sess.NewRandomGame(); rerr != nil {
				r.say("Bad Seed.")
				break
			}
			render = true
		case 1:
			seed, perr := strconv.ParseInt(rest[0], 10, 64)
			if perr != nil || r.sess.NewGame(seed) != nil {
				r.say("Bad Seed.")
				break
			}
			render = true
		default:
			r.say("usage: n [SEED]")
		}

	case "v", "view":
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(r.sess.View())

	default:
		r.say(fmt.Sprintf("Unknown command %q, h for help.", cmd))
	}

	if err != nil {
		return false, err
	}
	if render {
		if err := r.sess.Render(r.out); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (r *repl) slotArg(rest []string) (int, bool) {
	if len(rest) != 1 {
		r.say("A slot number is required.")
		return 0, false
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil {
		r.say("A slot number is required.")
		return 0, false
	}
	return n, true
}

func (r *repl) say(msg string) {
	fmt.Fprintln(r.out, msg)
}
