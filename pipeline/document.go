package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/processor"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// output is one rebuilt document waiting to be written.
type output struct {
	lang    string
	path    string
	content []byte
	skip    bool // output would overwrite the input
}

// ProcessDocument translates one document into every target language and
// writes the outputs. Failures are reported in the result, never returned.
func (p *Pipeline) ProcessDocument(ctx context.Context, path string) polyglot.PipelineResult {
	start := time.Now()
	result := polyglot.PipelineResult{
		Path:   path,
		Format: polyglot.FormatForPath(path),
	}
	logger := p.logger.With().Str("path", path).Logger()

	err := p.process(ctx, path, &result, logger)
	result.Duration = time.Since(start)

	status := statusSuccess
	switch {
	case errors.Is(err, polyglot.ErrCancelled):
		status = statusCancelled
		result.Error = err.Error()
		logger.Warn().Msg("document processing cancelled")
	case err != nil:
		status = statusFailed
		result.Error = err.Error()
		logger.Error().Err(err).Msg("document processing failed")
	default:
		result.Success = true
		logger.Info().
			Int("fragments", result.Fragments).
			Int("translated", result.Translated).
			Int("cached", result.Cached).
			Int("degraded", result.Degraded).
			Dur("duration", result.Duration).
			Msg("document processed")
	}

	p.metrics.RecordDocument(status, result.Format.String(), result.Duration)
	p.metrics.RecordFragments(result.Translated, result.Cached, result.Degraded)

	return result
}

func (p *Pipeline) process(ctx context.Context, path string, result *polyglot.PipelineResult, logger zerolog.Logger) error {
	if err := p.validate(path); err != nil {
		return err
	}

	proc, err := processor.ForPath(path, p.procOpts...)
	if err != nil {
		return &polyglot.DocumentError{Path: path, Stage: polyglot.StageExtract, Cause: err}
	}

	raw, err := os.ReadFile(path) // #nosec G304 - paths come from the operator
	if err != nil {
		return &polyglot.DocumentError{Path: path, Stage: polyglot.StageRead, Cause: err}
	}
	content, encoding := decode(raw, result.Format)
	if encoding != "utf-8" {
		logger.Warn().Str("encoding", encoding).Msg("input is not UTF-8, decoded")
	}

	units, err := proc.Extract(content)
	if err != nil {
		return &polyglot.DocumentError{Path: path, Stage: polyglot.StageExtract, Cause: err}
	}
	result.Fragments = len(units)
	if len(units) == 0 {
		logger.Info().Msg("no translatable content found")
		return nil
	}

	translations := make(polyglot.TranslationMap, len(p.cfg.TargetLangs))
	outputs := make([]output, 0, len(p.cfg.TargetLangs))
	for _, lang := range p.cfg.TargetLangs {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", polyglot.ErrCancelled, path)
		}

		out := output{lang: lang, path: p.outputPath(path, lang)}
		if p.cfg.IsSourceLang(lang) {
			out.content = raw
			out.skip = samePath(out.path, path)
			outputs = append(outputs, out)
			continue
		}

		stats := p.translateUnits(ctx, units, lang, translations, logger)
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", polyglot.ErrCancelled, path)
		}
		result.Translated += stats.translated
		result.Cached += stats.cached
		result.Degraded += stats.degraded

		rebuilt, err := proc.Rebuild(content, translations[lang])
		if err != nil {
			return &polyglot.DocumentError{Path: path, Stage: polyglot.StageRebuild, Cause: fmt.Errorf("%s: %w", lang, err)}
		}
		out.content = []byte(rebuilt)
		outputs = append(outputs, out)
	}

	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s", polyglot.ErrCancelled, path)
	}
	for _, out := range outputs {
		result.OutputPaths = append(result.OutputPaths, out.path)
		if out.skip {
			continue
		}
		if err := writeAtomic(out.path, out.content); err != nil {
			return &polyglot.DocumentError{Path: path, Stage: polyglot.StageWrite, Cause: err}
		}
		logger.Debug().Str("lang", out.lang).Str("output", out.path).Msg("output written")
	}

	return nil
}

func (p *Pipeline) validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &polyglot.DocumentError{Path: path, Stage: polyglot.StageRead, Cause: err}
	}
	if info.IsDir() {
		return &polyglot.DocumentError{Path: path, Stage: polyglot.StageRead, Cause: errors.New("is a directory")}
	}
	if ext := filepath.Ext(path); !p.cfg.Supports(ext) {
		return &polyglot.DocumentError{Path: path, Stage: polyglot.StageRead, Cause: fmt.Errorf("%w: %q", polyglot.ErrUnsupportedFormat, ext)}
	}
	if info.Size() > p.cfg.MaxFileSize {
		return &polyglot.DocumentError{
			Path:  path,
			Stage: polyglot.StageRead,
			Cause: fmt.Errorf("%w: %d bytes, limit %d", polyglot.ErrFileTooLarge, info.Size(), p.cfg.MaxFileSize),
		}
	}
	return nil
}

type fragmentStats struct {
	translated int
	cached     int
	degraded   int
}

// translateUnits translates every unit into lang and records the results in
// translations. A failed unit keeps its original text. No new unit is started
// once ctx is done.
func (p *Pipeline) translateUnits(ctx context.Context, units []polyglot.TranslatableUnit, lang string, translations polyglot.TranslationMap, logger zerolog.Logger) fragmentStats {
	results := make([]polyglot.TranslationResult, len(units))
	started := make([]bool, len(units))

	sem := make(chan struct{}, p.cfg.FragmentConcurrency)
	var wg sync.WaitGroup

dispatch:
	for i, unit := range units {
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}
		started[i] = true

		wg.Add(1)
		go func(idx int, text string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = p.translator.TranslateText(ctx, text, lang, p.cfg.SourceLang)
		}(i, unit.Text)
	}
	wg.Wait()

	var stats fragmentStats
	for i, unit := range units {
		if !started[i] {
			continue
		}
		res := results[i]
		text := res.TranslatedText
		switch {
		case res.Failed():
			stats.degraded++
			text = unit.Text
			logger.Warn().
				Err(res.Err).
				Str("lang", lang).
				Str("fragment", unit.ID).
				Int("attempts", res.Attempts).
				Msg("translation failed, keeping original text")
		case res.Cached:
			stats.cached++
		default:
			stats.translated++
		}
		if !translations.Set(lang, unit.ID, text) {
			logger.Warn().Str("lang", lang).Str("fragment", unit.ID).Msg("duplicate fragment id, keeping first translation")
		}
	}

	return stats
}

// outputPath places the translated file next to the input, or in OutputDir.
func (p *Pipeline) outputPath(path, lang string) string {
	name := polyglot.TranslatedFilename(filepath.Base(path), lang, p.cfg.SourceLang)
	dir := p.cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, name)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// writeAtomic writes content in one piece so readers never see a partial file.
func writeAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return renameio.WriteFile(path, content, 0o644)
}
