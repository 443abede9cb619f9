package recipe

import (
	"fmt"

	"recipe-viewer/internal/core/cache"
	"recipe-viewer/internal/core/linker"
	"recipe-viewer/internal/core/queue"
	"recipe-viewer/internal/core/scaler"
	"recipe-viewer/internal/core/source"
	"recipe-viewer/internal/core/store"
	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/pkg/common"

	"go.uber.org/zap"
)

// NewLinker 依設定載入詞彙表並建立連結引擎
func NewLinker(cfg config.LinkerConfig) (*linker.Linker, error) {
	vocab, err := linker.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		return nil, err
	}
	return linker.New(vocab), nil
}

// NewScaler 依設定建立縮放引擎
func NewScaler(cfg config.ScaleConfig) *scaler.Scaler {
	tolerance := cfg.Tolerance
	if tolerance <= 0 {
		tolerance = scaler.DefaultTolerance
	}
	return scaler.New(
		scaler.WithFormatter(scaler.NewFormatter(scaler.DefaultFractions(), tolerance)),
		scaler.WithConverter(scaler.NewConverter(tolerance)),
		scaler.WithPresets(cfg.Presets),
	)
}

// NewServiceFromConfig 依設定組裝儲存、快取、隊列與來源，建立文件服務
func NewServiceFromConfig(cfg *config.Config, recorder Recorder) (*DocumentService, error) {
	l, err := NewLinker(cfg.Linker)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	var docs store.Store
	if cfg.Redis.Enabled {
		rs, err := store.NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect document store: %w", err)
		}
		docs = rs
	} else {
		docs = store.NewMemoryStore()
	}

	opts := Options{
		Store:          docs,
		Linker:         l,
		Scaler:         NewScaler(cfg.Scale),
		Cache:          cache.NewManager(cfg.Cache),
		Queue:          queue.NewManager(cfg.Queue),
		Metrics:        recorder,
		LinkingDefault: cfg.Linker.EnabledDefault,
		MarkOpen:       cfg.Linker.MarkOpen,
		MarkClose:      cfg.Linker.MarkClose,
	}
	if cfg.Source.Enabled {
		opts.Source = source.NewClient(cfg.Source)
	}

	common.LogInfo("文件服務初始化完成",
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("source_enabled", cfg.Source.Enabled),
		zap.Bool("linking_default", cfg.Linker.EnabledDefault),
		zap.String("vocabulary_file", cfg.Linker.VocabularyFile),
	)

	return NewService(opts), nil
}
