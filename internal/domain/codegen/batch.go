package codegen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aetheris-lab/aetheris/internal/domain/batch"
)

// ConfigFromParams decodes a loose parameter map into a Config via its JSON
// field names.
func ConfigFromParams(params map[string]any) (Config, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return Config{}, fmt.Errorf("codegen: invalid params: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("codegen: invalid params: %w", err)
	}
	return cfg, nil
}

// BatchResult summarizes a batch generation run.
type BatchResult struct {
	Total        int                `json:"total"`
	SuccessCount int                `json:"success_count"`
	FailCount    int                `json:"fail_count"`
	Results      []batch.ItemResult `json:"results"`
}

// GenerateBatch renders one code per item, each item overlaid on the common
// configuration, with at most maxConcurrent in flight. Individual failures
// land in their result slot; the batch itself only fails when empty or
// canceled.
func (g *Generator) GenerateBatch(ctx context.Context, common map[string]any, items []map[string]any, maxConcurrent int) (*BatchResult, error) {
	runner := batch.NewRunner(maxConcurrent)
	results, err := runner.Run(ctx, common, items, func(ctx context.Context, params map[string]any) (any, error) {
		cfg, err := ConfigFromParams(params)
		if err != nil {
			return nil, err
		}
		return g.Generate(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}

	success := 0
	for _, r := range results {
		if r.Success {
			success++
		}
	}
	return &BatchResult{
		Total:        len(results),
		SuccessCount: success,
		FailCount:    len(results) - success,
		Results:      results,
	}, nil
}

// SupportedFormats lists the accepted formats per concern.
func SupportedFormats() map[string][]string {
	return map[string][]string{
		"barcode_formats":      BarcodeFormats,
		"qrcode_error_correct": QRLevels,
		"output_formats":       OutputFormats,
	}
}
