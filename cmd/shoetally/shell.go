package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacentio/shoetally/autosave"
	"github.com/jacentio/shoetally/sizeexpr"
	"github.com/jacentio/shoetally/store"
)

// shellCmd runs an interactive session
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session with autosave",
	Long: `Starts an interactive session. Changes are written as they are made and
pending changes are flushed in the background at the configured autosave
interval, and once more when the session ends.

Type "help" for the list of commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

const shellHelp = `Commands:
  add <brand> <color> <sizes>   add sizes, e.g. add Nike "Dark Red" 38-40,42*2
  list [sort] [desc]            list rows, sorted by brand, color, size or count
  find <text>                   list rows matching text
  inc <id>                      add one to a row
  dec <id>                      subtract one from a row (asks before removing)
  rm <id>                       remove a row
  count <sizes>                 count the sizes an expression expands to
  notes [text]                  show or replace the notes
  half [on|off]                 show or set half-size ranges
  save                          flush pending changes now
  help                          show this help
  quit                          end the session`

func runShell(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	saver := autosave.New(inventory, autosave.Config{
		Interval: cfg.Autosave.Interval,
		OnFlush:  func() { fmt.Fprintln(out, "(saved)") },
	}, logger.Named("autosave"))
	saver.Start(ctx)
	defer func() {
		if err := saver.Stop(context.Background()); err != nil {
			logger.Warn("final save failed", zap.Error(err))
		}
	}()

	sh := &shell{in: bufio.NewScanner(cmd.InOrStdin()), out: out}
	return sh.run(ctx)
}

type shell struct {
	in  *bufio.Scanner
	out io.Writer
}

func (sh *shell) prompt() { fmt.Fprint(sh.out, "shoetally> ") }

func (sh *shell) run(ctx context.Context) error {
	fmt.Fprintln(sh.out, `shoetally shell - type "help" for commands`)
	for {
		sh.prompt()
		if !sh.in.Scan() {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields, err := shlex.Split(sh.in.Text())
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := sh.exec(ctx, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}

func (sh *shell) exec(ctx context.Context, name string, args []string) error {
	switch name {
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return nil

	case "add":
		if len(args) < 3 {
			return errors.New("usage: add <brand> <color> <sizes>")
		}
		res, err := inventory.AddExpression(ctx, args[0], args[1], strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "Added %d new row(s), merged %d\n", len(res.NewIDs), res.Merged)
		return nil

	case "list", "ls", "find":
		opts := store.ViewOptions{}
		if name == "find" {
			opts.Filter = strings.Join(args, " ")
		} else {
			if len(args) > 0 {
				key, err := store.ParseSortKey(args[0])
				if err != nil {
					return err
				}
				opts.Sort = key
			}
			opts.Descending = len(args) > 1 && args[1] == "desc"
		}
		entries, err := inventory.Entries(ctx)
		if err != nil {
			return err
		}
		printEntries(sh.out, store.View(entries, opts))
		return nil

	case "inc", "dec", "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <id>", name)
		}
		id, err := resolveID(ctx, args[0])
		if err != nil {
			return err
		}
		return sh.adjust(ctx, name, id)

	case "count":
		step, err := inventory.Step(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, sizeexpr.Count(strings.Join(args, " "), step))
		return nil

	case "notes":
		if len(args) == 0 {
			notes, err := inventory.Notes(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(sh.out, notes)
			return nil
		}
		return inventory.SetNotes(ctx, strings.Join(args, " "))

	case "half":
		if len(args) == 1 {
			v, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			if err := inventory.SetIncludeHalfSizes(ctx, v); err != nil {
				return err
			}
		}
		half, err := inventory.IncludeHalfSizes(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "half-sizes: %t\n", half)
		return nil

	case "save":
		wrote, err := inventory.Flush(ctx)
		if err != nil {
			return err
		}
		if !wrote {
			fmt.Fprintln(sh.out, "Nothing to save")
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
}

func (sh *shell) adjust(ctx context.Context, name, id string) error {
	switch name {
	case "inc":
		e, err := inventory.Increment(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "%s now has %d\n", describe(e), e.Count)
	case "dec":
		res, err := inventory.Decrement(ctx, id)
		if err != nil {
			return err
		}
		if !res.ConfirmDelete {
			fmt.Fprintf(sh.out, "%s now has %d\n", describe(res.Entry), res.Entry.Count)
			return nil
		}
		if !sh.confirm(fmt.Sprintf("Remove %s? [y/N] ", describe(res.Entry))) {
			return nil
		}
		fallthrough
	case "rm":
		removed, err := inventory.Delete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "Removed %s\n", describe(removed))
	}
	return nil
}

func (sh *shell) confirm(question string) bool {
	fmt.Fprint(sh.out, question)
	if !sh.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sh.in.Text()))
	return answer == "y" || answer == "yes"
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}
