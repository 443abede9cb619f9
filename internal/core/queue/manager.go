package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/pkg/common"

	"go.uber.org/zap"
)

// Job 背景工作
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	DroppedCount   int64 `json:"dropped_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 有界工作隊列，滿了就丟棄，從不阻塞呼叫端
type Manager struct {
	config    config.QueueConfig
	queue     chan *Job
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	processed int64
	failed    int64
	dropped   int64
}

// NewManager 創建隊列管理器並啟動 workers
func NewManager(cfg config.QueueConfig) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config: cfg,
		queue:  make(chan *Job, cfg.MaxSize),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("隊列管理員已初始化",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

// Enqueue 將工作加入隊列；隊列已滿或已關閉時回傳錯誤
func (m *Manager) Enqueue(job *Job) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return common.ErrServiceUnavailable
	}

	select {
	case m.queue <- job:
		common.LogDebug("Job enqueued",
			zap.String("job", job.Name),
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return nil
	default:
		atomic.AddInt64(&m.dropped, 1)
		common.LogWarn("隊列已滿，丟棄工作",
			zap.String("job", job.Name),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return common.ErrQueueFull
	}
}

// worker 逐一執行工作直到隊列關閉
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for job := range m.queue {
		if err := m.run(job); err != nil {
			atomic.AddInt64(&m.failed, 1)
			common.LogWarn("Job failed",
				zap.Int("worker", id),
				zap.String("job", job.Name),
				zap.Error(err),
			)
			continue
		}
		m.IncrementProcessed()
	}
}

// run 執行單一工作，panic 轉為錯誤
func (m *Manager) run(job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = common.ErrInternalError
			common.LogError("Job panicked", zap.String("job", job.Name), zap.Any("panic", r))
		}
	}()
	if job.Run == nil {
		return nil
	}
	return job.Run(m.ctx)
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		DroppedCount:   atomic.LoadInt64(&m.dropped),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// IncrementProcessed 增加處理計數
func (m *Manager) IncrementProcessed() {
	atomic.AddInt64(&m.processed, 1)
}

// Done 關閉通知，workers 結束後關閉
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Close 停止接收新工作，等待隊列中的工作完成或 ctx 到期
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	go func() {
		m.wg.Wait()
		close(m.done)
	}()

	select {
	case <-m.done:
		m.cancel()
		return nil
	case <-ctx.Done():
		// 通知執行中的工作盡快結束
		m.cancel()
		return ctx.Err()
	}
}
