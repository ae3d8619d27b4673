package utils

import (
	"math/rand/v2"
	"regexp"
	"strconv"
)

const (
	accessCodeMin  = 100000
	accessCodeSpan = 900000
)

var accessCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// GenerateAccessCode 生成一个6位数字提取码，均匀分布在 [100000, 999999]
func GenerateAccessCode() string {
	return strconv.Itoa(accessCodeMin + rand.IntN(accessCodeSpan))
}

// IsValidAccessCode 检查字符串是否是合法的6位数字提取码
func IsValidAccessCode(code string) bool {
	return accessCodePattern.MatchString(code)
}
