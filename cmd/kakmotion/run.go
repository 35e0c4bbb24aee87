package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/kakmotion/internal/app"
	"github.com/dshills/kakmotion/internal/engine"
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

var (
	runCommands   []string
	runScript     string
	runSelections []string
	runLanguage   string
	runWrite      bool
	runKeepGoing  bool
	runStats      bool
	runShowSels   bool
	runWatch      bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Apply selection commands to a file",
	Long: `Apply a sequence of selection commands to FILE ("-" reads stdin).

Commands are given with -e (repeatable) and/or read from a script file, one
per line. A command is an action name followed by key=value arguments or a
JSON object, optionally preceded by a repeat count. Lines starting with '#'
are comments.

The resulting text is written to stdout unless --write saves it in place.

Examples:
  # Select the third word
  kakmotion run notes.md -e '3 selection.moveBy unit=word selectWhole=true' --selections

  # Put every line's words into one selection each and list them
  kakmotion run main.go -e selection.splitByNewline \
      -e 'selection.createByRegex {"text": "\\w+"}' --selections

  # Swap two regions and save
  kakmotion run list.txt --select 0:0-0:5 -e selection.appendToMemory \
      --select 2:0-2:5 -s swap.kak --write`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringArrayVarP(&runCommands, "exec", "e", nil, "command to run (repeatable, runs before --script)")
	f.StringVarP(&runScript, "script", "s", "", "file with one command per line (\"-\" for stdin)")
	f.StringArrayVar(&runSelections, "select", nil, "initial selection LINE:COL[-LINE:COL], anchor first (repeatable)")
	f.StringVarP(&runLanguage, "language", "l", "", "language identifier (default: detected from FILE)")
	f.BoolVarP(&runWrite, "write", "w", false, "save the result back to FILE")
	f.BoolVarP(&runKeepGoing, "keep-going", "k", false, "continue after a failing command")
	f.BoolVar(&runStats, "stats", false, "print dispatch statistics to stderr")
	f.BoolVar(&runShowSels, "selections", false, "print the final selections instead of the text")
	f.BoolVar(&runWatch, "watch", false, "reload units when their files change")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	o := opts
	o.Watch = runWatch
	if runStats {
		o.Dispatcher = o.Dispatcher.WithMetrics()
	}
	application, err := app.New(o)
	if err != nil {
		return err
	}
	defer application.Close()

	doc, err := openInput(application, args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	if runLanguage != "" {
		doc.Engine.SetLanguageID(runLanguage)
	}
	if len(runSelections) > 0 {
		sels, err := parseSelections(runSelections)
		if err != nil {
			return err
		}
		doc.Engine.SetSelections(sels)
	}

	script := strings.Join(runCommands, "\n")
	if runScript != "" {
		data, err := readScript(runScript, cmd.InOrStdin())
		if err != nil {
			return err
		}
		script += "\n" + data
	}

	runErr := application.RunScript(strings.NewReader(script), runKeepGoing)
	printMessages(cmd.ErrOrStderr(), doc.Engine.Messages())
	if runStats {
		printStats(cmd.ErrOrStderr(), application)
	}
	if runErr != nil && !runKeepGoing {
		return runErr
	}

	switch {
	case runWrite && !doc.IsScratch():
		if err := doc.Save(); err != nil {
			return err
		}
	case runShowSels:
		printSelections(cmd.OutOrStdout(), doc.Engine)
	default:
		_, _ = io.WriteString(cmd.OutOrStdout(), doc.Content())
	}
	return runErr
}

func openInput(application *app.Application, path string, stdin io.Reader) (*app.Document, error) {
	if path != "-" {
		return application.Open(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	return application.OpenText("<stdin>", string(data), ""), nil
}

func readScript(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// parseSelections parses LINE:COL[-LINE:COL] arguments.
func parseSelections(args []string) ([]cursor.Selection, error) {
	sels := make([]cursor.Selection, 0, len(args))
	for _, arg := range args {
		from, to, ranged := strings.Cut(arg, "-")
		anchor, err := parsePosition(from)
		if err != nil {
			return nil, fmt.Errorf("selection %q: %w", arg, err)
		}
		active := anchor
		if ranged {
			if active, err = parsePosition(to); err != nil {
				return nil, fmt.Errorf("selection %q: %w", arg, err)
			}
		}
		sels = append(sels, cursor.NewSelection(anchor, active))
	}
	return sels, nil
}

func parsePosition(s string) (buffer.Position, error) {
	l, c, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return buffer.Position{}, errors.New("expected LINE:COL")
	}
	line, err := strconv.Atoi(l)
	if err != nil || line < 0 {
		return buffer.Position{}, fmt.Errorf("invalid line %q", l)
	}
	col, err := strconv.Atoi(c)
	if err != nil || col < 0 {
		return buffer.Position{}, fmt.Errorf("invalid column %q", c)
	}
	return buffer.NewPosition(line, col), nil
}

func printMessages(w io.Writer, msgs []engine.Message) {
	for _, m := range msgs {
		fmt.Fprintf(w, "%s: %s\n", m.Level, m.Text)
	}
}

func printSelections(w io.Writer, eng *engine.Engine) {
	texts := eng.SelectedText()
	for i, sel := range eng.Selections() {
		fmt.Fprintf(w, "%s\t%q\n", sel, texts[i])
	}
}

func printStats(w io.Writer, application *app.Application) {
	m := application.Dispatcher().Metrics()
	if m == nil {
		return
	}
	snap := m.Snapshot()
	fmt.Fprintf(w, "dispatches: %d  errors: %d  panics: %d  avg: %s\n",
		snap.TotalDispatches, snap.TotalErrors, snap.TotalPanics, snap.AverageDuration.Round(time.Microsecond))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tCOUNT\tERRORS\tERR%\tNO-OPS\tAVG\tMAX")
	for _, a := range m.TopActions(-1) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.0f\t%d\t%s\t%s\n", a.Name, a.DispatchCount, a.ErrorCount, a.ErrorRate(), a.NoOpCount,
			a.AverageDuration().Round(time.Microsecond), a.MaxDuration.Round(time.Microsecond))
	}
	_ = tw.Flush()
}
