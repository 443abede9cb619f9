package recipe

import (
	"context"
	"time"

	"recipe-viewer/internal/core/cache"
	"recipe-viewer/internal/core/linker"
	"recipe-viewer/internal/core/queue"
	"recipe-viewer/internal/core/scaler"
	"recipe-viewer/internal/pkg/common"
)

// Highlight 單一步驟的標示結果
type Highlight struct {
	Step        int                `json:"step"`
	Ingredients []int              `json:"ingredients"`
	Spans       []linker.MatchSpan `json:"spans"`
	Segments    []linker.Segment   `json:"segments"`
	Marked      string             `json:"marked"`
}

// ScaleResult 縮放結果
type ScaleResult struct {
	Factor   float64                `json:"factor"`
	Scalable bool                   `json:"scalable"`
	Items    []scaler.ScaledDisplay `json:"items"`
}

// DocumentSummary 文件摘要（API 回應用）
type DocumentSummary struct {
	ID              string    `json:"id"`
	LinkingEnabled  bool      `json:"linking_enabled"`
	IngredientCount int       `json:"ingredient_count"`
	StepCount       int       `json:"step_count"`
	Scalable        bool      `json:"scalable"`
	Source          string    `json:"source,omitempty"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Stats 服務狀態（健康檢查用）
type Stats struct {
	TrackedDocuments int           `json:"tracked_documents"`
	Cache            cache.Stats   `json:"cache"`
	Queue            *queue.Status `json:"queue,omitempty"`
}

// PayloadFetcher 外部食譜資料來源
type PayloadFetcher interface {
	FetchPayload(ctx context.Context, url string) (*common.RecipePayload, error)
}

// Recorder 服務指標
type Recorder interface {
	ObserveIndex(source string, d time.Duration)
	ObserveScale(total, converted int)
	ObserveDocument(op string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveIndex(string, time.Duration) {}
func (noopRecorder) ObserveScale(int, int)              {}
func (noopRecorder) ObserveDocument(string)             {}
