package store

import (
	"context"
	"sync"

	"recipe-viewer/internal/pkg/common"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore 以 map 保存文件，僅限單一實例
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

// Save 新增或覆寫文件
func (s *MemoryStore) Save(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return common.NewValidationError("document id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc.Clone()
	return nil
}

// Get 取得文件副本
func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, common.ErrDocumentNotFound
	}
	return doc.Clone(), nil
}

// Delete 刪除文件
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return common.ErrDocumentNotFound
	}
	delete(s.docs, id)
	return nil
}

// Len 文件數量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Ping 記憶體儲存永遠可用
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close 清空所有文件
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]*Document)
	return nil
}
