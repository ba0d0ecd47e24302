package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/pathway"
	"github.com/aretw0/pathway/internal/presentation/tui"
	"github.com/aretw0/pathway/pkg/runner"
)

// Report formats.
const (
	ReportAuto     = "auto"
	ReportMarkdown = "markdown"
	ReportJSON     = "json"
)

// RunOptions holds configuration for the run command.
type RunOptions struct {
	EngineOptions
	RunID         string
	SnapshotEvery int
	Tolerate      bool
	Report        string
	NoBanner      bool
}

type failureView struct {
	AgentID string  `json:"agent_id"`
	Bubble  string  `json:"bubble"`
	Time    float64 `json:"time"`
	Error   string  `json:"error"`
}

type resultView struct {
	RunID     string         `json:"run_id"`
	Reason    string         `json:"reason"`
	Events    int            `json:"events"`
	Time      float64        `json:"time"`
	Occupancy map[string]int `json:"occupancy"`
	Failures  []failureView  `json:"failures,omitempty"`
}

// RunSimulation executes one run of the project and writes a report to out.
// SIGINT and SIGTERM stop the run early; the partial report is still printed.
func RunSimulation(ctx context.Context, opts RunOptions, out io.Writer) error {
	logger, err := createLogger(opts.Log)
	if err != nil {
		return err
	}

	format := opts.Report
	if format == "" || format == ReportAuto {
		format = ReportMarkdown
	}
	if format != ReportMarkdown && format != ReportJSON {
		return fmt.Errorf("unknown report format %q", opts.Report)
	}

	extra := []pathway.Option{pathway.WithSnapshotEvery(opts.SnapshotEvery)}
	if opts.Tolerate {
		extra = append(extra, pathway.WithTolerateAgentErrors())
	}

	engine, err := createEngine(opts.EngineOptions, logger, extra...)
	if err != nil {
		return err
	}
	defer engine.Close()

	tty := isTerminal(out)
	if tty && !opts.NoBanner && format == ReportMarkdown {
		tui.PrintBanner(out)
	}

	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	res, topo, err := engine.Run(sc, opts.RunID)
	if sig := sc.Signal(); sig != nil {
		printSystemMessage(out, "Run interrupted by %v", sig)
	}
	if err != nil {
		if res != nil && topo != nil && format == ReportMarkdown {
			fmt.Fprintln(out, tui.Report(engine.Name, topo, res))
		}
		return fmt.Errorf("run failed: %w", err)
	}

	if format == ReportJSON {
		return writeResultJSON(out, res)
	}

	report := tui.Report(engine.Name, topo, res)
	if tty {
		render, err := tui.NewRenderer(0)
		if err == nil {
			if rendered, err := render(report); err == nil {
				report = rendered
			}
		}
	}
	_, err = fmt.Fprintln(out, report)
	return err
}

func writeResultJSON(out io.Writer, res *runner.Result) error {
	view := resultView{
		RunID:     res.RunID,
		Reason:    string(res.Reason),
		Events:    res.Events,
		Time:      res.Time,
		Occupancy: res.Occupancy,
	}
	for _, f := range res.Failures {
		view.Failures = append(view.Failures, failureView{
			AgentID: f.AgentID,
			Bubble:  f.Bubble,
			Time:    f.Time,
			Error:   f.Err.Error(),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
