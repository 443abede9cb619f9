package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is 可穿透 Wrap
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap 以同一錯誤代碼包裝底層錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Err:     err,
	}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ToErrorResponse 將錯誤轉換為 HTTP 狀態碼與響應
func ToErrorResponse(err error, debug bool) (int, ErrorResponse) {
	var ce *CustomError
	if errors.As(err, &ce) {
		resp := ErrorResponse{Code: ce.Code, Message: ce.Message}
		if debug && ce.Err != nil {
			resp.Details = ce.Err.Error()
		}
		return ce.Status, resp
	}
	if IsValidationError(err) {
		return http.StatusBadRequest, ErrorResponse{
			Code:    ErrCodeInvalidRequest,
			Message: err.Error(),
		}
	}
	resp := ErrorResponse{Code: ErrCodeInternalError, Message: ErrInternalError.Message}
	if debug {
		resp.Details = err.Error()
	}
	return http.StatusInternalServerError, resp
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeRequestTimeout   = "REQUEST_TIMEOUT"    // 408
	ErrCodeConflict         = "CONFLICT"           // 409
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// 業務錯誤
	ErrCodeDocumentNotFound  = "DOCUMENT_NOT_FOUND"
	ErrCodeLinkingDisabled   = "LINKING_DISABLED"
	ErrCodeInvalidIndex      = "INVALID_INDEX"
	ErrCodeInvalidScale      = "INVALID_SCALE"
	ErrCodeInvalidPayload    = "INVALID_PAYLOAD"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeCacheFull         = "CACHE_FULL"
	ErrCodeCacheDisabled     = "CACHE_DISABLED"
	ErrCodeCacheMiss         = "CACHE_MISS"
	ErrCodeQueueFull         = "QUEUE_FULL"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "不支持的請求方法", http.StatusMethodNotAllowed, nil)
	ErrRequestTimeout   = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrConflict         = NewError(ErrCodeConflict, "資源衝突", http.StatusConflict, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrDocumentNotFound  = NewError(ErrCodeDocumentNotFound, "食譜文件不存在", http.StatusNotFound, nil)
	ErrLinkingDisabled   = NewError(ErrCodeLinkingDisabled, "食材步驟連結未啟用", http.StatusConflict, nil)
	ErrInvalidIndex      = NewError(ErrCodeInvalidIndex, "索引超出範圍", http.StatusBadRequest, nil)
	ErrInvalidScale      = NewError(ErrCodeInvalidScale, "縮放倍率必須為正數", http.StatusBadRequest, nil)
	ErrInvalidPayload    = NewError(ErrCodeInvalidPayload, "無效的食譜資料", http.StatusBadRequest, nil)
	ErrSourceUnavailable = NewError(ErrCodeSourceUnavailable, "食譜來源無法取得", http.StatusBadGateway, nil)
	ErrCacheFull         = NewError(ErrCodeCacheFull, "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled     = NewError(ErrCodeCacheDisabled, "緩存已禁用", http.StatusServiceUnavailable, nil)
	ErrCacheMiss         = NewError(ErrCodeCacheMiss, "緩存未命中", http.StatusNotFound, nil)
	ErrQueueFull         = NewError(ErrCodeQueueFull, "隊列已滿", http.StatusServiceUnavailable, nil)
)
