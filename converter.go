package md2png

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-md2png/internal/assets"
	"github.com/alnah/go-md2png/internal/locator"
	"github.com/alnah/go-md2png/internal/pipeline"
)

// Compile-time interface checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ engineLocator                 = (*locator.Locator)(nil)
)

// Converter renders markdown to PNG images.
// Create with NewConverter, call Convert for each input, and Close when done.
// Every Convert starts and stops its own engine process.
type Converter struct {
	cfg         converterConfig
	synthesizer *pipeline.Synthesizer
	locator     engineLocator
	launcher    sessionLauncher
	style       string // resolved base stylesheet
	typesetter  string // math typesetter source, empty if none is bundled
}

// NewConverter creates a Converter. Options are validated and assets are
// loaded here, so Convert only fails on per-input problems.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:         defaultConfig(),
		synthesizer: pipeline.NewSynthesizer(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.validate(); err != nil {
		return nil, err
	}

	if err := c.loadAssets(); err != nil {
		return nil, err
	}

	if c.locator == nil {
		c.locator = locator.New()
	}
	if c.launcher == nil {
		c.launcher = rodLauncher{}
	}

	return c, nil
}

// validate checks option values. Zero is not accepted: defaults are applied
// before options run.
func (cfg converterConfig) validate() error {
	if err := cfg.probeViewport().Validate(); err != nil {
		return err
	}
	if cfg.pollInterval <= 0 || cfg.settleTimeout <= 0 || cfg.typesetFallback <= 0 {
		return fmt.Errorf("%w: poll interval, settle timeout and typeset fallback must be positive", ErrInvalidTiming)
	}
	if cfg.pollInterval > cfg.settleTimeout {
		return fmt.Errorf("%w: poll interval %s exceeds settle timeout %s", ErrInvalidTiming, cfg.pollInterval, cfg.settleTimeout)
	}
	return nil
}

// loadAssets resolves the stylesheet and the typesetter script.
// A missing typesetter is not fatal: math is then left as plain text.
func (c *Converter) loadAssets() error {
	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	name := c.cfg.style
	if name == "" {
		name = assets.DefaultStyleName
	}
	css, err := resolver.LoadStyle(name)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return fmt.Errorf("loading style %q: %w", name, err)
	}
	c.style = css

	script, err := resolver.LoadScript(assets.TypesetterName)
	switch {
	case err == nil:
		c.typesetter = script
	case errors.Is(err, assets.ErrScriptNotFound):
		c.cfg.logger.Warn().Msg("no math typesetter bundled, math will render as text")
	default:
		return fmt.Errorf("loading typesetter: %w", err)
	}
	return nil
}

// HasTypesetter reports whether math is typeset in rendered images.
func (c *Converter) HasTypesetter() bool {
	return c.typesetter != ""
}

// Convert renders input to a PNG image. The context bounds the whole
// conversion together with WithTimeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, fmt.Errorf("%w: markdown is empty", ErrInputUnavailable)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	document, err := c.synthesizer.Synthesize(ctx, input.Markdown, input.SourceDir, pipeline.Document{
		Style:           c.style,
		ExtraCSS:        input.CSS,
		Typesetter:      c.typesetter,
		TypesetFallback: c.cfg.typesetFallback,
	})
	if err != nil {
		if errors.Is(err, ErrHTMLConversion) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, wrapKind(ErrHTMLConversion, err)
	}

	out, err := newCoordinator(c.cfg, c.locator, c.launcher).run(ctx, document)
	if err != nil {
		return nil, err
	}

	untypeset := c.typesetter == "" && pipeline.ContainsMath(input.Markdown)
	if untypeset {
		c.cfg.logger.Warn().Msg("input has math but no typesetter is bundled, formulas left as source text")
	}

	return &Result{
		PNG:           out.png,
		HTML:          document,
		Viewport:      out.viewport,
		Settle:        out.settle,
		UntypesetMath: untypeset,
	}, nil
}

// Close releases resources held by the Converter. Engine processes never
// outlive a Convert call, so there is currently nothing to release.
func (c *Converter) Close() error {
	return nil
}
