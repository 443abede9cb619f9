package recipe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"recipe-viewer/internal/core/cache"
	"recipe-viewer/internal/core/linker"
	"recipe-viewer/internal/core/queue"
	"recipe-viewer/internal/core/scaler"
	"recipe-viewer/internal/core/store"
	"recipe-viewer/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options DocumentService 的相依元件；Cache、Queue、Source、Metrics 可為 nil
type Options struct {
	Store          store.Store
	Linker         *linker.Linker
	Scaler         *scaler.Scaler
	Cache          *cache.CacheManager
	Queue          *queue.Manager
	Source         PayloadFetcher
	Metrics        Recorder
	LinkingDefault bool
	MarkOpen       string
	MarkClose      string
}

// DocumentService 管理食譜文件及其衍生的連結索引
//
// 同一文件的索引、標示與縮放呼叫以文件鎖序列化；衍生狀態在資料變更時整個重建。
type DocumentService struct {
	store          store.Store
	linker         *linker.Linker
	scaler         *scaler.Scaler
	cache          *cache.CacheManager
	queue          *queue.Manager
	source         PayloadFetcher
	metrics        Recorder
	linkingDefault bool
	markOpen       string
	markClose      string

	group  singleflight.Group
	mu     sync.Mutex
	states map[string]*documentState
}

// documentState 單一文件的鎖與衍生資料
type documentState struct {
	mu          sync.Mutex
	fingerprint string
	entries     []linker.Entry
	index       *linker.Index
}

func (st *documentState) reset() {
	st.fingerprint = ""
	st.entries = nil
	st.index = nil
}

// NewService 創建文件服務
func NewService(opts Options) *DocumentService {
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Linker == nil {
		opts.Linker = linker.NewDefault()
	}
	if opts.Scaler == nil {
		opts.Scaler = scaler.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = noopRecorder{}
	}
	if opts.MarkOpen == "" || opts.MarkClose == "" {
		opts.MarkOpen, opts.MarkClose = "<mark>", "</mark>"
	}

	return &DocumentService{
		store:          opts.Store,
		linker:         opts.Linker,
		scaler:         opts.Scaler,
		cache:          opts.Cache,
		queue:          opts.Queue,
		source:         opts.Source,
		metrics:        opts.Metrics,
		linkingDefault: opts.LinkingDefault,
		markOpen:       opts.MarkOpen,
		markClose:      opts.MarkClose,
		states:         make(map[string]*documentState),
	}
}

// Create 建立新文件
func (s *DocumentService) Create(ctx context.Context, payload *common.RecipePayload) (*store.Document, error) {
	return s.create(ctx, payload, "")
}

// CreateFromSource 從外部來源取得資料後建立文件
func (s *DocumentService) CreateFromSource(ctx context.Context, url string) (*store.Document, error) {
	if s.source == nil {
		return nil, common.ErrSourceUnavailable
	}

	payload, err := s.source.FetchPayload(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, payload, strings.TrimSpace(url))
}

func (s *DocumentService) create(ctx context.Context, payload *common.RecipePayload, source string) (*store.Document, error) {
	if payload == nil {
		payload = &common.RecipePayload{}
	}

	now := time.Now().UTC()
	doc := &store.Document{
		ID:             common.GenerateUUID(),
		Payload:        *payload,
		LinkingEnabled: s.linkingDefault,
		Fingerprint:    common.PayloadFingerprint(payload),
		Source:         source,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.metrics.ObserveDocument("create")

	common.LogInfo("已建立食譜文件",
		zap.String("id", doc.ID),
		zap.Int("ingredients", len(payload.ParsedIngredients)),
		zap.Int("steps", len(payload.Steps)),
	)

	s.enqueueWarmup(doc)
	return doc, nil
}

// Get 取得文件
func (s *DocumentService) Get(ctx context.Context, id string) (*store.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrDocumentNotFound) {
			s.dropState(id)
		}
		return nil, err
	}
	s.metrics.ObserveDocument("get")
	return doc, nil
}

// Replace 以新資料取代文件內容，衍生索引將重建
func (s *DocumentService) Replace(ctx context.Context, id string, payload *common.RecipePayload) (*store.Document, error) {
	if payload == nil {
		payload = &common.RecipePayload{}
	}

	st := s.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()

	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	doc.Payload = *payload
	doc.Fingerprint = common.PayloadFingerprint(payload)
	doc.Version++
	doc.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}
	st.reset()
	s.metrics.ObserveDocument("replace")

	common.LogInfo("已更新食譜文件",
		zap.String("id", id),
		zap.Int64("version", doc.Version),
	)

	s.enqueueWarmup(doc)
	return doc, nil
}

// Delete 刪除文件
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	st := s.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrDocumentNotFound) {
			s.dropState(id)
		}
		return err
	}
	st.reset()
	s.dropState(id)
	s.metrics.ObserveDocument("delete")

	common.LogInfo("已刪除食譜文件", zap.String("id", id))
	return nil
}

// Summary 文件摘要
func (s *DocumentService) Summary(doc *store.Document) DocumentSummary {
	return DocumentSummary{
		ID:              doc.ID,
		LinkingEnabled:  doc.LinkingEnabled,
		IngredientCount: len(doc.Payload.ParsedIngredients),
		StepCount:       len(doc.Payload.Steps),
		Scalable:        scaler.HasScalable(doc.Payload.ParsedIngredients),
		Source:          doc.Source,
		Version:         doc.Version,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// Ping 檢查儲存是否可用
func (s *DocumentService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Stats 服務狀態
func (s *DocumentService) Stats() Stats {
	s.mu.Lock()
	tracked := len(s.states)
	s.mu.Unlock()

	stats := Stats{
		TrackedDocuments: tracked,
		Cache:            s.cache.GetStats(),
	}
	if s.queue != nil {
		stats.Queue = s.queue.GetQueueStatus()
	}
	return stats
}

// Close 依序關閉隊列、快取與儲存
func (s *DocumentService) Close(ctx context.Context) error {
	var errs []error
	if s.queue != nil {
		if err := s.queue.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// state 取得（或建立）文件狀態
func (s *DocumentService) state(id string) *documentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id]
	if !ok {
		st = &documentState{}
		s.states[id] = st
	}
	return st
}

func (s *DocumentService) dropState(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}
