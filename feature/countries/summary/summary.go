package summary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"country-cache/core/artifact"
	"country-cache/feature/countries/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TopN is the number of countries listed in a summary.
const TopN = 5

// Summary is the data every renderer draws from.
type Summary struct {
	Total       int64
	Top         []models.Country
	GeneratedAt time.Time
}

// Renderer turns a Summary into one artifact file.
type Renderer interface {
	// Ext is the file extension, without the dot.
	Ext() string
	ContentType() string
	Render(s Summary, w *bytes.Buffer) error
}

// Source is the read side of the country store needed for a summary.
type Source interface {
	Count(ctx context.Context) (int64, error)
	TopByGDP(ctx context.Context, n int) ([]models.Country, error)
}

// Publisher builds a Summary and writes it through every renderer.
type Publisher struct {
	source    Source
	artifacts artifact.Store
	key       string
	renderers []Renderer
	logger    *zap.Logger
}

// NewPublisher creates a publisher writing "<key>.<ext>" per renderer.
func NewPublisher(source Source, artifacts artifact.Store, key string, logger *zap.Logger, renderers ...Renderer) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = "summary"
	}
	return &Publisher{
		source:    source,
		artifacts: artifacts,
		key:       key,
		renderers: renderers,
		logger:    logger,
	}
}

// Name returns the artifact name written by r.
func (p *Publisher) Name(r Renderer) string {
	return p.NameFor(r.Ext())
}

// NameFor returns the artifact name for an extension.
func (p *Publisher) NameFor(ext string) string {
	return p.key + "." + ext
}

// Build queries the total and the top countries by estimated GDP.
func (p *Publisher) Build(ctx context.Context, generatedAt time.Time) (Summary, error) {
	s := Summary{GeneratedAt: generatedAt}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := p.source.Count(gctx)
		if err != nil {
			return err
		}
		s.Total = total
		return nil
	})
	g.Go(func() error {
		top, err := p.source.TopByGDP(gctx, TopN)
		if err != nil {
			return err
		}
		s.Top = top
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("failed to build summary: %w", err)
	}
	return s, nil
}

// Publish builds the summary and writes every artifact. All renderers are
// attempted; their errors are joined.
func (p *Publisher) Publish(ctx context.Context, generatedAt time.Time) error {
	s, err := p.Build(ctx, generatedAt)
	if err != nil {
		return err
	}

	var errs []error
	for _, r := range p.renderers {
		name := p.Name(r)
		var buf bytes.Buffer
		if err := r.Render(s, &buf); err != nil {
			errs = append(errs, fmt.Errorf("render %s: %w", name, err))
			continue
		}
		if err := p.artifacts.Put(ctx, name, buf.Bytes(), r.ContentType()); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", name, err))
			continue
		}
		p.logger.Debug("Artifact written", zap.String("name", name), zap.Int("bytes", buf.Len()))
	}
	return errors.Join(errs...)
}
