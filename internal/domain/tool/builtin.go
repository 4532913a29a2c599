package tool

import (
	"context"
	"fmt"

	"github.com/aetheris-lab/aetheris/internal/domain/codegen"
	"github.com/aetheris-lab/aetheris/internal/domain/convert"
	"github.com/aetheris-lab/aetheris/internal/domain/extract"
	"github.com/aetheris-lab/aetheris/internal/domain/jsontool"
)

// RegisterBuiltins installs the standard tool catalog. The ai_chat entry is
// metadata-only: it is advertised for navigation but served by the assistant
// endpoints, not by Execute. batchLimit caps concurrent batch items when a
// request does not name its own limit; zero or negative keeps the built-in
// default.
func RegisterBuiltins(r *Registry, gen *codegen.Generator, batchLimit int) error {
	builtins := []Registration{
		{
			Meta: Metadata{
				ID:          "ai_chat",
				Name:        "AI Assistant",
				Description: "Conversational AI assistant",
				Category:    "AI Assistant",
				Icon:        "message",
				Keywords:    []string{"chat", "AI", "assistant"},
			},
		},
		{
			Meta: Metadata{
				ID:          "json_formatter",
				Name:        "JSON Formatter",
				Description: "Format, compress and inspect JSON data",
				Category:    "Text Processing",
				Icon:        "file",
				Keywords:    []string{"JSON", "format", "compress", "pretty"},
			},
			Exec: ExecutorFunc(execJSONFormatter),
		},
		{
			Meta: Metadata{
				ID:          "json_validator",
				Name:        "JSON Validator",
				Description: "Validate JSON syntax with line and column reporting",
				Category:    "Text Processing",
				Icon:        "file",
				Keywords:    []string{"JSON", "validate", "syntax"},
			},
			Exec: ExecutorFunc(execJSONValidator),
		},
		{
			Meta: Metadata{
				ID:          "json_field_extractor",
				Name:        "JSON Field Extractor",
				Description: "Extract fields from JSON with nested paths and array indexing",
				Category:    "Text Processing",
				Icon:        "file",
				Keywords:    []string{"JSON", "fields", "extract", "nested", "CSV", "export"},
			},
			Exec: ExecutorFunc(execFieldExtractor),
		},
		{
			Meta: Metadata{
				ID:          "unit_converter",
				Name:        "Unit Converter",
				Description: "Convert between length, weight and temperature units",
				Category:    "Conversion",
				Icon:        "calculator",
				Keywords:    []string{"unit", "length", "weight", "temperature"},
			},
			Exec: ExecutorFunc(execUnitConverter),
		},
		{
			Meta: Metadata{
				ID:          "base_converter",
				Name:        "Base Converter",
				Description: "Convert numerals between binary, octal, decimal and hex",
				Category:    "Conversion",
				Icon:        "calculator",
				Keywords:    []string{"base", "binary", "octal", "hex"},
			},
			Exec: ExecutorFunc(execBaseConverter),
		},
		{
			Meta: Metadata{
				ID:          "code_generator",
				Name:        "Code Generator",
				Description: "Generate barcodes and QR codes, with optional template compositing",
				Category:    "Data Processing",
				Icon:        "qrcode",
				Keywords:    []string{"barcode", "QR", "code128", "image"},
			},
			Exec: ExecutorFunc(func(ctx context.Context, params map[string]any) (any, error) {
				cfg, err := codegen.ConfigFromParams(params)
				if err != nil {
					return nil, err
				}
				return gen.Generate(ctx, cfg)
			}),
		},
		{
			Meta: Metadata{
				ID:          "code_generator_batch",
				Name:        "Batch Code Generator",
				Description: "Generate many barcodes or QR codes concurrently",
				Category:    "Data Processing",
				Icon:        "qrcode",
				Keywords:    []string{"barcode", "QR", "batch", "bulk"},
			},
			Exec: ExecutorFunc(func(ctx context.Context, params map[string]any) (any, error) {
				return execCodeGeneratorBatch(ctx, gen, params, batchLimit)
			}),
		},
	}

	for _, b := range builtins {
		if err := r.Register(b.Meta, b.Exec); err != nil {
			return err
		}
	}
	return nil
}

func execJSONFormatter(_ context.Context, params map[string]any) (any, error) {
	return jsontool.Format(jsontool.FormatRequest{
		Input:    stringParam(params, "input"),
		Indent:   intParam(params, "indent", 0),
		SortKeys: boolParam(params, "sort_keys"),
	})
}

func execJSONValidator(_ context.Context, params map[string]any) (any, error) {
	return jsontool.Validate(stringParam(params, "input"))
}

func execFieldExtractor(_ context.Context, params map[string]any) (any, error) {
	return extract.Extract(extract.Request{
		Input:        stringParam(params, "input"),
		Fields:       fieldList(params["fields"]),
		OutputFormat: stringParam(params, "output_format"),
		Separator:    stringParam(params, "separator"),
	})
}

func execUnitConverter(_ context.Context, params map[string]any) (any, error) {
	value, ok := floatParam(params, "value")
	if !ok {
		return nil, fmt.Errorf("unit_converter: missing numeric %q parameter", "value")
	}
	category := stringParam(params, "category")
	if category == "" {
		category = "length"
	}
	return convert.Unit(value,
		stringParam(params, "from_unit"),
		stringParam(params, "to_unit"),
		category)
}

func execBaseConverter(_ context.Context, params map[string]any) (any, error) {
	value := stringParam(params, "value")
	fromBase := intParam(params, "from_base", 10)
	if boolParam(params, "all_bases") {
		return convert.AllBases(value, fromBase)
	}
	return convert.Base(value, fromBase, intParam(params, "to_base", 10))
}

func execCodeGeneratorBatch(ctx context.Context, gen *codegen.Generator, params map[string]any, batchLimit int) (any, error) {
	common, _ := params["common_config"].(map[string]any)
	items := itemList(params["items"])
	return gen.GenerateBatch(ctx, common, items, intParam(params, "max_concurrent", batchLimit))
}

// --- param helpers: JSON-decoded request bodies carry float64 numbers ---

func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func boolParam(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func floatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// fieldList accepts either a JSON array of strings or a comma-separated
// string.
func fieldList(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		fields := make([]string, 0, len(val))
		for _, f := range val {
			if s, ok := f.(string); ok {
				fields = append(fields, s)
			}
		}
		return fields
	case string:
		return extract.SplitFields(val)
	default:
		return nil
	}
}

func itemList(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}
