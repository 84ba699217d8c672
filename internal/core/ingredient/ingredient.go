package ingredient

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// 正規化後僅保留小寫字母、數字、連字號與底線
var invalidChars = regexp.MustCompile(`[^a-z0-9_-]`)

// Set 食材集合（名稱為自由文字）
type Set map[string]struct{}

// NewSet 從名稱列表建立食材集合，重複項自動合併
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s[name] = struct{}{}
	}
	return s
}

// Lower 返回所有名稱轉為小寫的新集合
func (s Set) Lower() Set {
	lowered := make(Set, len(s))
	for name := range s {
		lowered[strings.ToLower(name)] = struct{}{}
	}
	return lowered
}

// Add 加入一個食材名稱
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Contains 檢查集合是否包含指定名稱
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Slice 返回按字典序排序的名稱切片
func (s Set) Slice() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON 以排序後的名稱切片編碼
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON 從名稱切片解碼
func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewSet(names...)
	return nil
}

// Normalize 正規化單一食材名稱：轉小寫、空格換連字號、移除其餘非法字符
func Normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	return invalidChars.ReplaceAllString(name, "")
}

// CanonicalKey 產生食材集合的標準鍵：逐一正規化、去重、
// 排序後以底線串接。鍵與輸入順序、大小寫無關，空集合對應空字串。
func CanonicalKey(s Set) string {
	seen := make(map[string]struct{}, len(s))
	normalized := make([]string, 0, len(s))
	for name := range s {
		n := Normalize(name)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	sort.Strings(normalized)
	return strings.Join(normalized, "_")
}

// ParseKey 從標準鍵還原食材集合（連字號還原為空格）。
// 僅供儲存層反序列化使用，無法還原被移除的字符。
func ParseKey(key string) Set {
	if key == "" {
		return Set{}
	}
	s := Set{}
	for _, token := range strings.Split(key, "_") {
		s[strings.ReplaceAll(token, "-", " ")] = struct{}{}
	}
	return s
}
