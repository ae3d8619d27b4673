package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DigestPassword 计算分享密码的 SHA-256 十六进制摘要
// 同一输入始终产生同一输出，用于校验而非安全存储
func DigestPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyPasswordDigest 校验候选密码是否与存储的摘要匹配
// allowPlaintext 为 true 时额外兼容历史明文记录（迁移期开关，迁移完成后应关闭）
// 第二个返回值表示是否命中了明文分支，调用方可据此触发重新哈希
func VerifyPasswordDigest(candidate, stored string, allowPlaintext bool) (ok bool, legacy bool) {
	digest := DigestPassword(candidate)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1 {
		return true, false
	}
	if allowPlaintext && subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1 {
		return true, true
	}
	return false, false
}
