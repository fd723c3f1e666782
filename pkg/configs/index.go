package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultIndexBatchSize      = 25        // 全量遍历时的批量写入阈值
	DefaultIndexThrottleMs     = 200       // 每批写入后的节流暂停（毫秒）
	DefaultIndexDailyAt        = "03:00"   // 每日全量遍历时刻（本地时间 HH:MM）
	DefaultIndexMaxExtractSize = 10 << 20  // 内容抽取的大小上限（字节）
	DefaultIndexStrictHooks    = false     // 单文件钩子失败时是否 panic
	DefaultIndexFollowSymlinks = false     // 全量遍历是否跟随符号链接
)

// IndexConfig 索引调度配置.
type IndexConfig struct {
	BatchSize      int    `mapstructure:"batch_size"       rule:"min=1"`
	ThrottleMs     int    `mapstructure:"throttle_ms"      rule:"min=0"`
	DailyAt        string `mapstructure:"daily_at"         rule:"required"`
	MaxExtractSize int64  `mapstructure:"max_extract_size" rule:"min=0"`
	// StrictHooks 为 true 时，事件钩子里的索引失败会直接 panic；
	// 否则仅记录日志并丢弃该次更新，磁盘仍是事实来源，下次全量遍历会补齐.
	StrictHooks bool `mapstructure:"strict_hooks"`
	// FollowSymlinks 打开后遍历把链接目录当普通目录走，小心环
	FollowSymlinks bool `mapstructure:"follow_symlinks"`
}

// setDefaults 设置索引调度配置的默认值.
func (c *IndexConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("index.batch_size", DefaultIndexBatchSize)
	v.SetDefault("index.throttle_ms", DefaultIndexThrottleMs)
	v.SetDefault("index.daily_at", DefaultIndexDailyAt)
	v.SetDefault("index.max_extract_size", DefaultIndexMaxExtractSize)
	v.SetDefault("index.strict_hooks", DefaultIndexStrictHooks)
	v.SetDefault("index.follow_symlinks", DefaultIndexFollowSymlinks)
}
