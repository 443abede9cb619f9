package recipe

import (
	"context"

	"recipe-viewer/internal/core/scaler"
	"recipe-viewer/internal/pkg/common"
)

// Scale 以倍數縮放文件中的食材
func (s *DocumentService) Scale(ctx context.Context, id string, factor float64) (*ScaleResult, error) {
	st := s.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()

	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ScalePayload(doc.Payload.ParsedIngredients, factor)
}

// ScalePayload 一次性縮放食材列表
func (s *DocumentService) ScalePayload(ingredients []common.ParsedIngredient, factor float64) (*ScaleResult, error) {
	items, err := s.scaler.Scale(ingredients, factor)
	if err != nil {
		return nil, err
	}

	converted := 0
	for _, item := range items {
		if item.Tooltip != nil {
			converted++
		}
	}
	s.metrics.ObserveScale(len(items), converted)

	return &ScaleResult{
		Factor:   factor,
		Scalable: scaler.HasScalable(ingredients),
		Items:    items,
	}, nil
}

// Presets 預設縮放倍數
func (s *DocumentService) Presets() []scaler.Preset {
	return s.scaler.Presets()
}
