package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 從外部服務取得已解析的食譜資料
type Client struct {
	config config.SourceConfig
	client *resty.Client
}

// NewClient 創建資料來源客戶端
func NewClient(cfg config.SourceConfig) *Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)

	// 只對連線錯誤與 5xx 重試
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})

	return &Client{
		config: cfg,
		client: client,
	}
}

// FetchPayload 取得 {parsedIngredients, steps} 格式的食譜資料
func (c *Client) FetchPayload(ctx context.Context, rawURL string) (*common.RecipePayload, error) {
	if !c.config.Enabled {
		return nil, common.ErrSourceUnavailable.Wrap(fmt.Errorf("source fetching is disabled"))
	}

	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, common.NewValidationError("source_url must be an absolute http(s) URL")
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		Get(target.String())
	if err != nil {
		common.LogWarn("取得食譜資料失敗", zap.String("url", target.Redacted()), zap.Error(err))
		return nil, common.ErrSourceUnavailable.Wrap(err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("食譜資料來源回應錯誤",
			zap.String("url", target.Redacted()),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, common.ErrSourceUnavailable.Wrap(fmt.Errorf("source returned status %d", resp.StatusCode()))
	}

	if int64(len(resp.Body())) > c.maxBodyBytes() {
		return nil, common.ErrInvalidPayload.Wrap(fmt.Errorf("source body exceeds %d bytes", c.maxBodyBytes()))
	}

	payload, err := common.DecodePayload(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, err
	}

	common.LogInfo("已取得食譜資料",
		zap.String("url", target.Redacted()),
		zap.Int("ingredients", len(payload.ParsedIngredients)),
		zap.Int("steps", len(payload.Steps)),
		zap.Duration("duration", time.Since(start)),
	)
	return payload, nil
}

func (c *Client) maxBodyBytes() int64 {
	if c.config.MaxBodyBytes <= 0 {
		return 2 * 1024 * 1024
	}
	return c.config.MaxBodyBytes
}
