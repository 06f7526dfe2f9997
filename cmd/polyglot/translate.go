package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/config"
	"github.com/ZaguanLabs/polyglot/pipeline"
	"github.com/ZaguanLabs/polyglot/processor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	targets     []string
	source      string
	outputDir   string
	service     string
	workers     int
	include     []string
	exclude     []string
	jsonOutput  bool
	metricsAddr string
}

func newTranslateCmd(global *globalOptions) *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate <file|dir>...",
		Short: "Translate documents into every target language",
		Long: `Translate documents into every target language.

Directories are searched recursively for files matching --include (default
*.txt *.md *.html *.json) and not matching --exclude. Fragments that fail to
translate keep their original text. Interrupting the run stops dispatching
new documents and lets the running ones finish.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, global, opts, args)
		},
	}

	fs := cmd.Flags()
	fs.StringSliceVarP(&opts.targets, "target", "t", nil, "Target languages (comma-separated), overrides config")
	fs.StringVarP(&opts.source, "source", "s", "", "Source language, overrides config")
	fs.StringVarP(&opts.outputDir, "output-dir", "o", "", "Write outputs here instead of next to the input")
	fs.StringVar(&opts.service, "service", "", "Translation service: openai, gemini, libretranslate or mock")
	fs.IntVarP(&opts.workers, "workers", "w", 0, "Documents processed concurrently")
	fs.StringSliceVar(&opts.include, "include", nil, "Include patterns for directory inputs")
	fs.StringSliceVar(&opts.exclude, "exclude", nil, "Exclude patterns for directory inputs")
	fs.BoolVar(&opts.jsonOutput, "json", false, "Print the batch summary as JSON")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	return cmd
}

func (o *translateOptions) apply(cmd *cobra.Command, s *config.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("target") {
		s.Core.TargetLangs = o.targets
	}
	if flags.Changed("source") {
		s.Core.SourceLang = o.source
	}
	if flags.Changed("output-dir") {
		s.Core.OutputDir = o.outputDir
	}
	if flags.Changed("service") {
		s.Backend.Service = o.service
	}
	if flags.Changed("workers") {
		s.Core.Workers = o.workers
	}
	if flags.Changed("metrics-addr") {
		s.MetricsAddr = o.metricsAddr
	}
	return s.Validate()
}

func runTranslate(cmd *cobra.Command, global *globalOptions, opts *translateOptions, args []string) error {
	ctx := cmd.Context()

	settings, err := loadSettings(global)
	if err != nil {
		return err
	}
	if err := opts.apply(cmd, &settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logger, err := newLogger(settings, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	paths, err := discoverAll(args, opts.include, opts.exclude)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no matching documents found")
	}

	backend, err := newBackend(ctx, settings, logger)
	if err != nil {
		return err
	}
	store, closeStore := openCache(settings, logger)
	defer closeStore()

	orchOpts := []polyglot.OrchestratorOption{
		polyglot.WithConfig(settings.Core),
		polyglot.WithLogger(logger),
	}
	if store != nil {
		orchOpts = append(orchOpts, polyglot.WithCache(store))
	}
	orch := polyglot.NewOrchestrator(backend, orchOpts...)

	pipeOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithProcessorOptions(processorOptions(settings)...),
	}
	if settings.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		pipeOpts = append(pipeOpts, pipeline.WithMetrics(pipeline.NewMetrics(reg)))
		stop := serveMetrics(settings.MetricsAddr, reg, logger)
		defer stop()
	}

	p, err := pipeline.New(settings.Core, orch, pipeOpts...)
	if err != nil {
		return err
	}

	summary := p.Run(ctx, paths)

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		if err := writeSummaryJSON(out, summary); err != nil {
			return err
		}
	} else {
		writeSummary(out, summary)
	}

	if ctx.Err() != nil {
		return fmt.Errorf("interrupted: %w", polyglot.ErrCancelled)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Total)
	}
	return nil
}

// discoverAll expands every argument and drops duplicates across arguments.
// processorOptions maps processing settings onto format processor options.
func processorOptions(s config.Settings) []processor.Option {
	var opts []processor.Option
	if s.ContiguousRebuild {
		opts = append(opts, processor.WithContiguousRebuild())
	}
	return opts
}

func discoverAll(args, include, exclude []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, arg := range args {
		found, err := pipeline.Discover(arg, include, exclude)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func writeSummary(w io.Writer, s polyglot.BatchSummary) {
	for _, r := range s.Results {
		if r.Success {
			fmt.Fprintf(w, "ok    %s (%d fragments, %d translated, %d cached, %d degraded)\n",
				r.Path, r.Fragments, r.Translated, r.Cached, r.Degraded)
			continue
		}
		fmt.Fprintf(w, "FAIL  %s: %s\n", r.Path, r.Error)
	}
	fmt.Fprintf(w, "\n%d documents, %d processed, %d failed, %d fragments in %v (%.1f%% success)\n",
		s.Total, s.Processed, s.Failed, s.Fragments, s.Duration.Round(time.Millisecond), s.SuccessRate())
}

// SummaryJSON is the --json output of translate.
type SummaryJSON struct {
	Total       int          `json:"total"`
	Processed   int          `json:"processed"`
	Failed      int          `json:"failed"`
	Fragments   int          `json:"fragments"`
	SuccessRate float64      `json:"success_rate"`
	ElapsedMs   int64        `json:"elapsed_ms"`
	Documents   []ResultJSON `json:"documents"`
}

// ResultJSON describes one document in SummaryJSON.
type ResultJSON struct {
	Path       string   `json:"path"`
	Format     string   `json:"format"`
	Success    bool     `json:"success"`
	Outputs    []string `json:"outputs,omitempty"`
	Fragments  int      `json:"fragments"`
	Translated int      `json:"translated"`
	Cached     int      `json:"cached"`
	Degraded   int      `json:"degraded"`
	ElapsedMs  int64    `json:"elapsed_ms"`
	Error      string   `json:"error,omitempty"`
}

func writeSummaryJSON(w io.Writer, s polyglot.BatchSummary) error {
	out := SummaryJSON{
		Total:       s.Total,
		Processed:   s.Processed,
		Failed:      s.Failed,
		Fragments:   s.Fragments,
		SuccessRate: s.SuccessRate(),
		ElapsedMs:   s.Duration.Milliseconds(),
		Documents:   make([]ResultJSON, 0, len(s.Results)),
	}
	for _, r := range s.Results {
		out.Documents = append(out.Documents, ResultJSON{
			Path:       r.Path,
			Format:     r.Format.String(),
			Success:    r.Success,
			Outputs:    r.OutputPaths,
			Fragments:  r.Fragments,
			Translated: r.Translated,
			Cached:     r.Cached,
			Degraded:   r.Degraded,
			ElapsedMs:  r.Duration.Milliseconds(),
			Error:      r.Error,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
