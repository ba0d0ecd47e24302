package cli

import (
	"fmt"
	"io"
)

// Validate checks the project and prints every finding.
// It returns an error when at least one finding was reported.
func Validate(opts EngineOptions, out io.Writer) error {
	logger, err := createLogger(opts.Log)
	if err != nil {
		return err
	}
	opts.SkipValidation = true

	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	findings := engine.Validate()
	if len(findings) == 0 {
		fmt.Fprintln(out, "Project is valid! ✅")
		return nil
	}

	fmt.Fprintf(out, "Found %d problem(s):\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(out, "  ❌ %s\n", f)
	}
	return fmt.Errorf("validation failed with %d problem(s)", len(findings))
}
