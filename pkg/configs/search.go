package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultSearchIndexPath = "data/search" // 全文索引目录
	DefaultSearchTopN      = 10            // 内容搜索返回的文档数
)

// SearchConfig 全文索引配置.
type SearchConfig struct {
	IndexPath string `mapstructure:"index_path" rule:"required"`
	TopN      int    `mapstructure:"top_n"      rule:"min=1,max=100"`
}

// setDefaults 设置全文索引配置的默认值.
func (c *SearchConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("search.index_path", DefaultSearchIndexPath)
	v.SetDefault("search.top_n", DefaultSearchTopN)
}
