package common

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// HashString 計算字符串的 SHA-256 哈希值
func HashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// PayloadFingerprint 計算食譜資料的指紋（相同內容得到相同值）
func PayloadFingerprint(payload *RecipePayload) string {
	if payload == nil {
		return HashString("")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return HashString("")
	}
	return HashString(string(data))
}
