package main

import (
	"github.com/spf13/cobra"

	"github.com/wowlog/wowlog-go/internal/config"
)

// settings returns the config file values overridden by any flags the
// user set on cmd. The result is validated.
func settings(cmd *cobra.Command, base *config.File) (*config.File, error) {
	f := *base
	flags := cmd.Flags()

	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	overrides := []struct {
		flag string
		dst  *string
	}{
		{"numbers", &f.Numbers},
		{"errors", &f.Errors},
		{"delimiter", &f.FieldDelimiter},
		{"format", &f.Format},
		{"log-dir", &f.LogDir},
	}
	for _, o := range overrides {
		if !changed(o.flag) {
			continue
		}
		v, err := flags.GetString(o.flag)
		if err != nil {
			return nil, err
		}
		*o.dst = v
	}

	if changed("stop-on-error") {
		stop, err := flags.GetBool("stop-on-error")
		if err != nil {
			return nil, err
		}
		f.OnError = config.OnErrorSkip
		if stop {
			f.OnError = config.OnErrorStop
		}
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// addGrammarFlags registers the flags shared by commands that parse lines.
func addGrammarFlags(cmd *cobra.Command) {
	cmd.Flags().String("numbers", config.NumbersInteger,
		"Number scanning: integer, truncating")
	cmd.Flags().String("errors", config.ErrorsDetailed,
		"Error detail: brief, detailed")
	cmd.Flags().String("delimiter", ",",
		"Payload field delimiter (single character)")
	cmd.Flags().StringP("format", "f", config.FormatJSONL,
		"Output format: jsonl, pretty")
}
