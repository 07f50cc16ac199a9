// Package export turns a rendered persona card into a single-page A4 PDF.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // PNG decoder for screenshot dimensions
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/persona-studio/internal/rendering"
	"github.com/jonathan/persona-studio/internal/types"
)

// DefaultScale is the device scale factor used when capturing a card.
const DefaultScale = 1.5

// Rasterizer captures one element of an HTML document as a PNG.
type Rasterizer interface {
	Rasterize(ctx context.Context, html, elementID string, scale float64) ([]byte, error)
}

// DocumentBuilder lays a PNG out on a single PDF page.
type DocumentBuilder interface {
	BuildPDF(ctx context.Context, png []byte, at Placement) ([]byte, error)
}

// Exporter produces PDFs from rendered documents.
type Exporter struct {
	rasterizer Rasterizer
	builder    DocumentBuilder
	scale      float64
	logger     *zap.Logger
}

// NewExporter creates an Exporter. A scale of zero or less uses DefaultScale.
func NewExporter(r Rasterizer, b DocumentBuilder, scale float64, logger *zap.Logger) *Exporter {
	if scale <= 0 {
		scale = DefaultScale
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{rasterizer: r, builder: b, scale: scale, logger: logger}
}

// NewChromeExporter creates an Exporter backed by headless Chrome for both stages.
func NewChromeExporter(chrome *Chrome, scale float64, logger *zap.Logger) *Exporter {
	return NewExporter(chrome, chrome, scale, logger)
}

// Export captures the element regionID of doc and writes a PDF to w. It returns the suggested
// file name derived from name. ErrTargetMissing is returned, and nothing written, when the
// element does not exist; every later failure is an *Error.
func (e *Exporter) Export(ctx context.Context, doc rendering.Document, regionID, name string, w io.Writer) (string, error) {
	pdf, err := e.build(ctx, doc, regionID)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(pdf); err != nil {
		return "", failed("write", err)
	}
	return SanitizeFileName(name), nil
}

// ExportToFile exports into dir and returns the path of the written file.
func (e *Exporter) ExportToFile(ctx context.Context, doc rendering.Document, regionID, name, dir string) (string, error) {
	pdf, err := e.build(ctx, doc, regionID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, SanitizeFileName(name))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", failed("write", err)
	}
	return path, nil
}

// ExportPersona renders p as a card and exports it.
func (e *Exporter) ExportPersona(ctx context.Context, p types.Persona, w io.Writer) (string, error) {
	doc, err := rendering.RenderCard(p)
	if err != nil {
		return "", failed("render", err)
	}
	return e.Export(ctx, doc, rendering.CardID(p.ID), p.Name, w)
}

func (e *Exporter) build(ctx context.Context, doc rendering.Document, regionID string) ([]byte, error) {
	_, found, err := rendering.FindRegion(doc, regionID)
	if err != nil {
		return nil, failed("locate", err)
	}
	if !found {
		return nil, ErrTargetMissing
	}

	png, err := e.rasterizer.Rasterize(ctx, doc.HTML, regionID, e.scale)
	if err != nil {
		e.logger.Warn("rasterization failed", zap.String("region", regionID), zap.Error(err))
		return nil, failed("rasterize", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, failed("decode", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, failed("decode", fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height))
	}
	at := FitToPage(float64(cfg.Width), float64(cfg.Height))

	pdf, err := e.builder.BuildPDF(ctx, png, at)
	if err != nil {
		e.logger.Warn("PDF build failed", zap.String("region", regionID), zap.Error(err))
		return nil, failed("build", err)
	}
	e.logger.Debug("exported region",
		zap.String("region", regionID),
		zap.Int("width_px", cfg.Width),
		zap.Int("height_px", cfg.Height),
		zap.Int("pdf_bytes", len(pdf)))
	return pdf, nil
}
