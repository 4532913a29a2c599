// Package codegen implements the barcode and QR code generator tool:
// rasterization, optional resizing, template compositing, PNG/JPEG encoding
// with base64 preview, and optional file output. Rasterization runs on a
// worker pool so large batches cannot starve request handling.
package codegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	xdraw "golang.org/x/image/draw"

	"github.com/aetheris-lab/aetheris/internal/infra/workerpool"
)

var (
	ErrEmptyContent  = errors.New("codegen: content is empty")
	ErrNoTemplate    = errors.New("codegen: template not provided or not found")
	ErrUnknownFormat = errors.New("codegen: unsupported output format")
	ErrEncodeFailed  = errors.New("codegen: encoding failed")
)

// BarcodeFormats lists the accepted 1D formats. Anything else falls back to
// code128.
var BarcodeFormats = []string{"code128", "code39", "ean13", "ean8"}

// QRLevels lists the accepted QR error correction levels.
var QRLevels = []string{"L", "M", "Q", "H"}

// OutputFormats lists the accepted raster encodings.
var OutputFormats = []string{"PNG", "JPEG"}

const (
	defaultQRBoxSize   = 10
	defaultQRBorder    = 4
	defaultBarModuleW  = 2
	defaultBarHeight   = 60
	defaultJPEGQuality = 95
)

// Config describes one code to generate.
type Config struct {
	Content string `json:"content"`

	CodeType      string `json:"code_type"`      // "qrcode" (default) or "barcode"
	BarcodeFormat string `json:"barcode_format"` // see BarcodeFormats

	QRLevel   string `json:"qr_error_correct"` // L, M (default), Q, H
	QRBoxSize int    `json:"qr_box_size"`      // pixels per module, default 10
	QRBorder  int    `json:"qr_border"`        // quiet zone in modules, default 4

	OutputWidth  int `json:"output_width"`
	OutputHeight int `json:"output_height"`

	UseTemplate    bool   `json:"use_template"`
	TemplatePath   string `json:"template_path"`
	TemplateBase64 string `json:"template_base64"`
	PositionX      int    `json:"position_x"`
	PositionY      int    `json:"position_y"`

	OutputFormat  string `json:"output_format"`  // PNG (default) or JPEG
	OutputQuality int    `json:"output_quality"` // JPEG only, default 95
	OutputPath    string `json:"output_path"`    // write to disk when set
}

// Result describes a generated image.
type Result struct {
	Content   string `json:"content"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Base64    string `json:"base64"`
	SavedPath string `json:"saved_path,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
}

// Generator rasterizes codes on a shared worker pool.
type Generator struct {
	pool *workerpool.Pool
}

// NewGenerator wraps the given pool. A nil pool runs generation inline.
func NewGenerator(pool *workerpool.Pool) *Generator {
	return &Generator{pool: pool}
}

// Generate renders the configured code, offloading the raster work to the
// worker pool when one is attached.
func (g *Generator) Generate(ctx context.Context, cfg Config) (*Result, error) {
	if strings.TrimSpace(cfg.Content) == "" {
		return nil, ErrEmptyContent
	}
	if g.pool == nil {
		return generate(cfg)
	}
	v, err := g.pool.Submit(ctx, func() (any, error) {
		return generate(cfg)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func generate(cfg Config) (*Result, error) {
	var (
		img image.Image
		err error
	)
	if strings.ToLower(cfg.CodeType) == "barcode" {
		img, err = renderBarcode(cfg)
	} else {
		img, err = renderQR(cfg)
	}
	if err != nil {
		return nil, err
	}

	if cfg.OutputWidth > 0 || cfg.OutputHeight > 0 {
		img = resize(img, cfg.OutputWidth, cfg.OutputHeight)
	}

	if cfg.UseTemplate {
		img, err = composite(img, cfg)
		if err != nil {
			return nil, err
		}
	}

	return encode(img, cfg)
}

// renderQR rasterizes a QR symbol: encode, scale modules to pixels, then
// frame the quiet zone on a white canvas.
func renderQR(cfg Config) (image.Image, error) {
	level := qr.M
	switch strings.ToUpper(cfg.QRLevel) {
	case "L":
		level = qr.L
	case "Q":
		level = qr.Q
	case "H":
		level = qr.H
	}

	code, err := qr.Encode(cfg.Content, level, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	boxSize := cfg.QRBoxSize
	if boxSize <= 0 {
		boxSize = defaultQRBoxSize
	}
	border := cfg.QRBorder
	if border <= 0 {
		border = defaultQRBorder
	}

	modules := code.Bounds().Dx()
	scaled, err := barcode.Scale(code, modules*boxSize, modules*boxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	margin := border * boxSize
	canvas := image.NewRGBA(image.Rect(0, 0, modules*boxSize+2*margin, modules*boxSize+2*margin))
	stddraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, stddraw.Src)
	stddraw.Draw(canvas, scaled.Bounds().Add(image.Pt(margin, margin)), scaled, image.Point{}, stddraw.Over)
	return canvas, nil
}

// renderBarcode rasterizes a 1D code. An unsupported format falls back to
// code128.
func renderBarcode(cfg Config) (image.Image, error) {
	format := strings.ToLower(cfg.BarcodeFormat)
	var (
		code barcode.Barcode
		err  error
	)
	switch format {
	case "code39":
		code, err = code39.Encode(cfg.Content, true, true)
	case "ean13", "ean8":
		code, err = ean.Encode(cfg.Content)
	default:
		code, err = code128.Encode(cfg.Content)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	scaled, err := barcode.Scale(code, code.Bounds().Dx()*defaultBarModuleW, defaultBarHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return scaled, nil
}

// resize scales to the requested dimensions, deriving the missing one from
// the source aspect ratio.
func resize(img image.Image, width, height int) image.Image {
	src := img.Bounds()
	switch {
	case width > 0 && height <= 0:
		height = src.Dy() * width / src.Dx()
	case height > 0 && width <= 0:
		width = src.Dx() * height / src.Dy()
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	return dst
}

// composite pastes the code onto the template at the configured position.
func composite(code image.Image, cfg Config) (image.Image, error) {
	var tmpl image.Image
	switch {
	case cfg.TemplateBase64 != "":
		raw, err := base64.StdEncoding.DecodeString(cfg.TemplateBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoTemplate, err)
		}
		tmpl, _, err = image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoTemplate, err)
		}
	case cfg.TemplatePath != "":
		f, err := os.Open(cfg.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoTemplate, err)
		}
		defer f.Close()
		tmpl, _, err = image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoTemplate, err)
		}
	default:
		return nil, ErrNoTemplate
	}

	canvas := image.NewRGBA(tmpl.Bounds())
	stddraw.Draw(canvas, canvas.Bounds(), tmpl, tmpl.Bounds().Min, stddraw.Src)
	target := code.Bounds().Add(image.Pt(cfg.PositionX, cfg.PositionY))
	stddraw.Draw(canvas, target, code, code.Bounds().Min, stddraw.Over)
	return canvas, nil
}

// encode renders to PNG or JPEG, producing a base64 preview and an optional
// file on disk.
func encode(img image.Image, cfg Config) (*Result, error) {
	format := strings.ToUpper(cfg.OutputFormat)
	if format == "" {
		format = "PNG"
	}
	quality := cfg.OutputQuality
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}

	var buf bytes.Buffer
	switch format {
	case "PNG":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
	case "JPEG", "JPG":
		format = "JPEG"
		if err := jpeg.Encode(&buf, flattenWhite(img), &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.OutputFormat)
	}

	res := &Result{
		Content: cfg.Content,
		Width:   img.Bounds().Dx(),
		Height:  img.Bounds().Dy(),
		Format:  format,
		Base64:  base64.StdEncoding.EncodeToString(buf.Bytes()),
	}

	if cfg.OutputPath != "" {
		if dir := filepath.Dir(cfg.OutputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("codegen: create output dir: %w", err)
			}
		}
		if err := os.WriteFile(cfg.OutputPath, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("codegen: write output: %w", err)
		}
		res.SavedPath = cfg.OutputPath
		res.FileSize = int64(buf.Len())
	}

	return res, nil
}

// flattenWhite drops alpha onto a white background for JPEG output.
func flattenWhite(img image.Image) image.Image {
	canvas := image.NewRGBA(img.Bounds())
	stddraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, stddraw.Src)
	stddraw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, stddraw.Over)
	return canvas
}
