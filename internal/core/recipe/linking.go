package recipe

import (
	"context"
	"encoding/json"
	"time"

	"recipe-viewer/internal/core/linker"
	"recipe-viewer/internal/core/queue"
	"recipe-viewer/internal/core/store"
	"recipe-viewer/internal/infrastructure/metrics"
	"recipe-viewer/internal/pkg/common"

	"go.uber.org/zap"
)

const indexCachePrefix = "link-index:"

// SetLinking 開啟或關閉連結功能；開啟時回傳索引
func (s *DocumentService) SetLinking(ctx context.Context, id string, enabled bool) (*linker.Index, error) {
	st := s.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()

	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.LinkingEnabled != enabled {
		doc.LinkingEnabled = enabled
		doc.UpdatedAt = time.Now().UTC()
		if err := s.store.Save(ctx, doc); err != nil {
			return nil, err
		}
		common.LogInfo("連結功能已切換", zap.String("id", id), zap.Bool("enabled", enabled))
	}

	if !enabled {
		st.reset()
		return nil, nil
	}
	if err := s.ensureDerived(ctx, st, doc); err != nil {
		return nil, err
	}
	return st.index, nil
}

// LinkIndex 取得文件的食材與步驟連結索引
func (s *DocumentService) LinkIndex(ctx context.Context, id string) (*linker.Index, error) {
	st := s.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()

	doc, err := s.linkedDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDerived(ctx, st, doc); err != nil {
		return nil, err
	}
	return st.index, nil
}

// Highlight 標示步驟中屬於指定食材的文字；ingredients 為空時使用該步驟的所有關聯食材
func (s *DocumentService) Highlight(ctx context.Context, id string, step int, ingredients []int) (*Highlight, error) {
	st := s.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()

	doc, err := s.linkedDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if step < 0 || step >= len(doc.Payload.Steps) {
		return nil, common.ErrInvalidIndex
	}
	for _, i := range ingredients {
		if i < 0 || i >= len(doc.Payload.ParsedIngredients) {
			return nil, common.ErrInvalidIndex
		}
	}

	if err := s.ensureDerived(ctx, st, doc); err != nil {
		return nil, err
	}
	if len(ingredients) == 0 {
		ingredients = st.index.StepToIngredients[step]
	}

	return s.highlightStep(st.entries, doc.Payload.Steps[step], step, ingredients), nil
}

// IngredientHighlights 標示某食材出現的所有步驟
func (s *DocumentService) IngredientHighlights(ctx context.Context, id string, ingredient int) ([]Highlight, error) {
	st := s.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()

	doc, err := s.linkedDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if ingredient < 0 || ingredient >= len(doc.Payload.ParsedIngredients) {
		return nil, common.ErrInvalidIndex
	}
	if err := s.ensureDerived(ctx, st, doc); err != nil {
		return nil, err
	}

	steps := st.index.IngredientToSteps[ingredient]
	highlights := make([]Highlight, 0, len(steps))
	for _, step := range steps {
		highlights = append(highlights, *s.highlightStep(st.entries, doc.Payload.Steps[step], step, []int{ingredient}))
	}
	return highlights, nil
}

// LinkPayload 一次性建立索引，不保存文件
func (s *DocumentService) LinkPayload(ctx context.Context, payload *common.RecipePayload) (*linker.Index, error) {
	if payload == nil {
		payload = &common.RecipePayload{}
	}
	entries := s.linker.Prepare(payload.ParsedIngredients)
	return s.indexFor(ctx, common.PayloadFingerprint(payload), entries, payload)
}

func (s *DocumentService) linkedDocument(ctx context.Context, id string) (*store.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.LinkingEnabled {
		return nil, common.ErrLinkingDisabled
	}
	return doc, nil
}

func (s *DocumentService) highlightStep(entries []linker.Entry, text string, step int, ingredients []int) *Highlight {
	spans := s.linker.Highlight(entries, text, ingredients)
	return &Highlight{
		Step:        step,
		Ingredients: append([]int{}, ingredients...),
		Spans:       spans,
		Segments:    linker.Segments(text, spans),
		Marked:      linker.Mark(text, spans, s.markOpen, s.markClose),
	}
}

// ensureDerived 資料指紋變更時重建變體與索引，呼叫端須持有文件鎖
func (s *DocumentService) ensureDerived(ctx context.Context, st *documentState, doc *store.Document) error {
	if st.index != nil && st.fingerprint == doc.Fingerprint {
		return nil
	}

	entries := s.linker.Prepare(doc.Payload.ParsedIngredients)
	index, err := s.indexFor(ctx, doc.Fingerprint, entries, &doc.Payload)
	if err != nil {
		return err
	}

	st.fingerprint = doc.Fingerprint
	st.entries = entries
	st.index = index
	return nil
}

// indexFor 依序嘗試快取、合併同時進行的建立、實際建立
func (s *DocumentService) indexFor(ctx context.Context, fingerprint string, entries []linker.Entry, payload *common.RecipePayload) (*linker.Index, error) {
	key := indexCachePrefix + fingerprint

	if data, err := s.cache.Get(ctx, key); err == nil {
		var index linker.Index
		if err := json.Unmarshal([]byte(data), &index); err == nil &&
			len(index.IngredientToSteps) == len(payload.ParsedIngredients) &&
			len(index.StepToIngredients) == len(payload.Steps) {
			s.metrics.ObserveIndex(metrics.IndexCached, 0)
			return &index, nil
		}
		common.LogWarn("快取中的索引無法使用，重新建立", zap.String("key", key))
		s.cache.Delete(key)
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		index := s.linker.IndexEntries(entries, len(payload.ParsedIngredients), payload.Steps)
		elapsed := time.Since(start)
		s.metrics.ObserveIndex(metrics.IndexBuilt, elapsed)

		common.LogDebug("已建立連結索引",
			zap.Int("ingredients", len(payload.ParsedIngredients)),
			zap.Int("steps", len(payload.Steps)),
			zap.Duration("duration", elapsed),
		)

		if data, err := json.Marshal(index); err == nil {
			if err := s.cache.Set(ctx, key, string(data)); err != nil {
				common.LogWarn("索引快取寫入失敗", zap.Error(err))
			}
		}
		return index, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.metrics.ObserveIndex(metrics.IndexShared, 0)
	}
	return v.(*linker.Index), nil
}

// enqueueWarmup 背景預建索引並寫入快取；隊列已滿時直接略過
func (s *DocumentService) enqueueWarmup(doc *store.Document) {
	if s.queue == nil || s.cache == nil || !doc.LinkingEnabled {
		return
	}

	payload := doc.Payload
	fingerprint := doc.Fingerprint
	err := s.queue.Enqueue(&queue.Job{
		Name: "warm-index:" + doc.ID,
		Run: func(ctx context.Context) error {
			entries := s.linker.Prepare(payload.ParsedIngredients)
			_, err := s.indexFor(ctx, fingerprint, entries, &payload)
			return err
		},
	})
	if err != nil {
		common.LogDebug("索引預建未排入隊列", zap.String("id", doc.ID), zap.Error(err))
	}
}
