package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
)

// FilePublisher writes each digest as an HTML page into a directory, one
// file per generation date. A later run on the same day replaces the file.
type FilePublisher struct {
	dir      string
	renderer *Renderer
}

// NewFilePublisher creates the publisher; dir is created on first publish.
func NewFilePublisher(dir string, renderer *Renderer) *FilePublisher {
	return &FilePublisher{dir: dir, renderer: renderer}
}

// Name implements pipeline.Publisher.
func (p *FilePublisher) Name() string {
	return "file"
}

// Path returns the file a digest generated at d.GeneratedAt is written to.
func (p *FilePublisher) Path(d *entity.Digest) string {
	return filepath.Join(p.dir, "funding-digest-"+d.GeneratedAt.Format(dateLayout)+".html")
}

// Publish renders the digest and replaces the day's file atomically.
func (p *FilePublisher) Publish(ctx context.Context, d *entity.Digest) error {
	var buf bytes.Buffer
	if err := p.renderer.RenderHTML(&buf, d); err != nil {
		return err
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	tmp, err := os.CreateTemp(p.dir, ".digest-*.html")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod report: %w", err)
	}

	path := p.Path(d)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}

	logging.FromContext(ctx).Info("report written",
		slog.String("path", path),
		slog.Int("events", len(d.Events)))
	return nil
}
