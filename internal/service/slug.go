package service

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 轉小寫，連續的非英數字元合併為單一 "-"，並去除頭尾的 "-"
// 例如 "Hello, World!" → "hello-world"
func Slugify(text string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}
