package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/script"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options carry the loaded config and the process streams.
type Options struct {
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *Options) defaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// With no arguments it opens the interactive list.
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		return doInteractive(opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "ui", "ls":
		return doInteractive(opt)

	case "replay":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: tada replay <file|->")
			return 2
		}
		return doReplay(a[0], opt)

	case "config":
		if err := opt.Config.Write(opt.Stdout); err != nil {
			ui.Fail(opt.Stderr, err.Error())
			return 1
		}
		return 0
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `tada - a tiny to-do list

Usage:
  tada [flags] [subcommand] [args]

Subcommands:
  ui                 Open the interactive list (default)
  replay <file|->    Replay a JSON intent script and print the result
  config             Print the effective configuration
  help               Show this help

Flags:
  -config <file>     Read settings from this TOML file
  -theme <name>      classic, neon or mono
  -group             Group replay output by pending/done
  -log-level <lvl>   debug, info, warn or error
  -log-file <file>   Append logs to this file

Keys (interactive list):
  a add   space toggle done   e edit   enter save   esc cancel   d delete   q quit

Examples:
  tada
  tada replay intents.json
  echo '{"intents":[{"op":"add","title":"Buy milk"}]}' | tada replay -
`)
}

// -------------- subcommand impls ----------------

func newLogger(opt Options, fallback io.Writer) (*log.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:  opt.Config.LogLevel,
		Format: opt.Config.LogFormat,
		File:   opt.Config.LogFile,
	}, fallback)
}

func doInteractive(opt Options) int {
	// the TUI owns the terminal; logs only go to a file
	logger, closer, err := newLogger(opt, io.Discard)
	if err != nil {
		ui.Fail(opt.Stderr, "log: "+err.Error())
		return 1
	}
	defer closer.Close()

	st := store.New(store.WithLogger(logger))
	if err := tui.Run(st, tui.Options{CharLimit: opt.Config.CharLimit, Logger: logger}); err != nil {
		ui.Fail(opt.Stderr, "tui: "+err.Error())
		return 1
	}
	d, p := st.Snapshot().Stats()
	ui.OK(opt.Stdout, fmt.Sprintf("bye (%d done, %d pending)", d, p))
	return 0
}

func doReplay(path string, opt Options) int {
	logger, closer, err := newLogger(opt, opt.Stderr)
	if err != nil {
		ui.Fail(opt.Stderr, "log: "+err.Error())
		return 1
	}
	defer closer.Close()

	r := opt.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			ui.Fail(opt.Stderr, "open: "+err.Error())
			return 1
		}
		defer f.Close()
		r = f
	}

	s, err := script.Parse(r)
	if err != nil {
		ui.Fail(opt.Stderr, "replay: "+err.Error())
		return 2
	}
	logger.Debug("script loaded", "intents", len(s.Intents))

	res := script.NewRunner(logger).Run(s)
	for _, n := range res.Notices {
		ui.Warn(opt.Stderr, n.Title+": "+n.Message)
	}
	if res.Blank > 0 {
		ui.Warn(opt.Stderr, fmt.Sprintf("skipped %d add(s) with a blank title", res.Blank))
	}
	if res.Declined > 0 {
		ui.Warn(opt.Stderr, fmt.Sprintf("%d removal(s) declined", res.Declined))
	}
	for _, id := range res.Editing {
		ui.Warn(opt.Stderr, fmt.Sprintf("task %v still being edited; draft discarded", id))
	}
	printList(opt.Stdout, res.Snapshot, opt.Config.Group)
	return 0
}

// -------------- rendering helpers --------------

// maxTitleWidth is the display width at which list titles are cut.
const maxTitleWidth = 80

func printList(w io.Writer, snap store.Snapshot, group bool) {
	t := ui.Current()
	d, p := snap.Stats()

	var lines []string
	lines = append(lines, ui.Header(d, p))
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	tasks := snap.Tasks()
	if group {
		lines = append(lines, groupLines(tasks)...)
	} else {
		lines = append(lines, flatLines(tasks)...)
	}
	ui.Panel(w, lines)
}

func flatLines(tasks []model.Task) []string {
	t := ui.Current()
	if len(tasks) == 0 {
		return []string{t.Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for i, task := range tasks {
		idx := fmt.Sprintf("%2d.", i+1)
		box := t.Muted.Render(t.BoxUnchecked)
		title := ansi.Truncate(task.Title, maxTitleWidth, "...")
		if task.Done {
			box = t.Success.Render(t.BoxChecked)
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), box, title))
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	t := ui.Current()
	var pend, done []model.Task
	for _, task := range tasks {
		if task.Done {
			done = append(done, task)
		} else {
			pend = append(pend, task)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
