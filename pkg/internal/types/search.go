package types

// SearchHit 单条检索结果.
type SearchHit struct {
	Name  string  `json:"name"`
	Path  string  `json:"path"`
	Score float64 `json:"score,omitempty"`
}

// SearchResponse 检索结果：文件名匹配与正文全文匹配分列返回.
type SearchResponse struct {
	NameMatches    []SearchHit `json:"name_matches"`
	ContentMatches []SearchHit `json:"content_matches"`
}
