package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// CalculateMD5 计算字节切片的MD5摘要（十六进制小写）
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
