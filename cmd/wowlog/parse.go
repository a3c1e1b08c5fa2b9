package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wowlog/wowlog-go/pkg/wowlog"
)

var parseCmd = &cobra.Command{
	Use:   "parse LINE...",
	Short: "Parse combat log lines given as arguments",
	Long: `Parse each argument as a single combat log line and print the result.

Lines that do not match the grammar are reported on stderr with a marker
under the failing position, and the command exits non-zero.

Examples:
  wowlog parse '10/17 01:00:29.037  SPELL_DAMAGE,Player-1,"Thrall",0x511'

  # Show where a malformed line fails
  wowlog parse '10/17 01:00:29 SPELL_DAMAGE'

  # Use a different payload delimiter
  wowlog parse --delimiter ';' --format pretty '1/2 3:4:5.6 a;b;c'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	addGrammarFlags(parseCmd)
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd, fileConfig)
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	grammar, err := cfg.Grammar()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	failed := 0
	for i, line := range args {
		rec, rest, err := grammar.ParseLine(line)
		if err != nil {
			failed++
			var le *wowlog.LineError
			if errors.As(err, &le) {
				fmt.Fprintf(errOut, "arg %d: %v\n%s\n", i+1, le.Err, caret(le.Line, le.Offset))
			} else {
				fmt.Fprintf(errOut, "arg %d: %v\n", i+1, err)
			}
			continue
		}

		e := wowlog.Entry{Number: i + 1, Record: rec, Rest: rest}
		if err := OutputEntry(cfg.Format, e, out); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lines malformed", failed, len(args))
	}
	return nil
}
