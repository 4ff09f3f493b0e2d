package closedbook

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/qadistill/qadistill/internal/output"
)

// ErrOutputDirExists is returned when the output folder already exists.
// A run never mixes its outputs into a previous run's folder.
var ErrOutputDirExists = errors.New("output folder already exists")

// Config is the immutable configuration for one corpus run. It is copied
// by value to every worker; nothing in it is mutated after Validate.
type Config struct {
	// InputDir holds the line-delimited corpus files, one task per file.
	InputDir string `validate:"required,dir"`

	// OutputDir receives one same-named output file per input file. It
	// must not exist yet.
	OutputDir string `validate:"required"`

	// OnlyEnglish skips whole website records whose language tag is not
	// exactly "en".
	OnlyEnglish bool

	// KeepMarkup preserves tags and attributes, decoding entities only.
	KeepMarkup bool

	// Workers bounds the number of files converted concurrently.
	Workers int `validate:"min=1"`

	// Format selects the output serialization. Empty means JSON.
	Format output.Format

	// Pretty indents JSON output. The corpus-native form is compact.
	Pretty bool
}

// DefaultConfig returns the configuration matching a bare run: sequential,
// English filter off, markup stripped, compact JSON.
func DefaultConfig() Config {
	return Config{
		Workers: 1,
		Format:  output.FormatJSON,
	}
}

var validate = validator.New()

// Validate checks the configuration before any task is dispatched.
// Configuration errors are the only errors that abort a whole run.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("unsupported output format: %s", c.Format)
	}

	if _, err := os.Stat(c.OutputDir); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputDirExists, c.OutputDir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking output folder: %w", err)
	}
	return nil
}
