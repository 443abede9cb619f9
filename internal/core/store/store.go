package store

import (
	"context"
	"time"

	"recipe-viewer/internal/pkg/common"
)

// Document 食譜文件：資料本身加上連結開關
type Document struct {
	ID             string               `json:"id"`
	Payload        common.RecipePayload `json:"payload"`
	LinkingEnabled bool                 `json:"linking_enabled"`
	Fingerprint    string               `json:"fingerprint"`
	Source         string               `json:"source,omitempty"`
	Version        int64                `json:"version"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Clone 深拷貝，避免呼叫端修改到儲存中的資料
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Payload = common.RecipePayload{
		ParsedIngredients: append([]common.ParsedIngredient(nil), d.Payload.ParsedIngredients...),
		Steps:             append([]string(nil), d.Payload.Steps...),
	}
	return &clone
}

// Store 文件儲存介面
type Store interface {
	Save(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id string) (*Document, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
