// Package config loads the wowlog CLI configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wowlog/wowlog-go/internal/parser"
	"github.com/wowlog/wowlog-go/internal/safefile"
	"github.com/wowlog/wowlog-go/pkg/wowlog"
)

const (
	// MaxFileSize is the maximum allowed size for a config file (64 KiB).
	MaxFileSize = 64 * 1024

	// SupportedVersion is the config file format version.
	SupportedVersion = 1
)

// Accepted values.
const (
	NumbersInteger    = "integer"
	NumbersTruncating = "truncating"

	ErrorsBrief    = "brief"
	ErrorsDetailed = "detailed"

	OnErrorSkip = "skip"
	OnErrorStop = "stop"

	FormatJSONL  = "jsonl"
	FormatPretty = "pretty"
)

// File is the on-disk configuration. Zero fields take their defaults.
//
//	version: 1
//	log_dir: /games/wow/_retail_/Logs
//	numbers: integer       # integer | truncating
//	errors: detailed       # brief | detailed
//	field_delimiter: ","
//	on_error: skip         # skip | stop
//	format: jsonl          # jsonl | pretty
type File struct {
	Version        int    `yaml:"version"`
	LogDir         string `yaml:"log_dir"`
	Numbers        string `yaml:"numbers"`
	Errors         string `yaml:"errors"`
	FieldDelimiter string `yaml:"field_delimiter"`
	OnError        string `yaml:"on_error"`
	Format         string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		Version:        SupportedVersion,
		Numbers:        NumbersInteger,
		Errors:         ErrorsDetailed,
		FieldDelimiter: string(wowlog.DefaultFieldDelimiter),
		OnError:        OnErrorSkip,
		Format:         FormatJSONL,
	}
}

// ValidationError reports a config value that is missing or not accepted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// sanitizePathError removes the path from os.PathError so messages don't
// echo file system paths back to the user.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// Load reads and validates the config file at path.
// The file must be a regular file no larger than MaxFileSize.
func Load(path string) (*File, error) {
	data, err := safefile.ReadRegular(path, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", sanitizePathError(err))
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates a config file from data.
// Unknown keys are rejected.
func LoadBytes(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("config file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("unsupported value %q (want one of %q)", value, allowed),
	}
}

// Validate checks every field against its accepted values.
func (f *File) Validate() error {
	if f.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", f.Version, SupportedVersion),
		}
	}
	if err := oneOf("numbers", f.Numbers, NumbersInteger, NumbersTruncating); err != nil {
		return err
	}
	if err := oneOf("errors", f.Errors, ErrorsBrief, ErrorsDetailed); err != nil {
		return err
	}
	if err := oneOf("on_error", f.OnError, OnErrorSkip, OnErrorStop); err != nil {
		return err
	}
	if err := oneOf("format", f.Format, FormatJSONL, FormatPretty); err != nil {
		return err
	}
	if len(f.FieldDelimiter) != 1 {
		return &ValidationError{
			Field:   "field_delimiter",
			Message: fmt.Sprintf("must be a single byte, got %q", f.FieldDelimiter),
		}
	}
	if d := f.FieldDelimiter[0]; parser.IsSpace(d) || d >= '0' && d <= '9' {
		return &ValidationError{
			Field:   "field_delimiter",
			Message: fmt.Sprintf("%q must not be a digit or whitespace", f.FieldDelimiter),
		}
	}
	return nil
}

// GrammarOptions returns the grammar options described by f.
func (f *File) GrammarOptions() []wowlog.GrammarOption {
	opts := []wowlog.GrammarOption{
		wowlog.WithNumbers(wowlog.Integer),
		wowlog.WithReporter(wowlog.Detailed),
	}
	if f.Numbers == NumbersTruncating {
		opts[0] = wowlog.WithNumbers(wowlog.Truncating)
	}
	if f.Errors == ErrorsBrief {
		opts[1] = wowlog.WithReporter(wowlog.Brief)
	}
	if f.FieldDelimiter != "" {
		opts = append(opts, wowlog.WithFieldDelimiter(f.FieldDelimiter[0]))
	}
	return opts
}

// Grammar builds the grammar described by f.
func (f *File) Grammar() (*wowlog.Grammar, error) {
	return wowlog.NewGrammar(f.GrammarOptions()...)
}

// StopOnError reports whether scanning should stop at the first malformed line.
func (f *File) StopOnError() bool {
	return f.OnError == OnErrorStop
}
