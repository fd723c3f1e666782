package configs

import (
	"github.com/spf13/viper"
)

// MQType 消息总线类型. 文件事件只在进程内流转，默认使用 watermill 的
// GoChannel 实现；保留类型字段便于未来接入外部中间件.
type MQType string

const (
	MQTypeGoChannel MQType = "gochannel"

	DefaultMQBufferSize = 64 // 每个订阅通道的缓冲长度
)

// MQConfig 消息总线配置.
type MQConfig struct {
	Type MQType `mapstructure:"type" rule:"oneof=gochannel"`
	// BufferSize 订阅通道缓冲；发布端不等待订阅者处理完成，
	// 缓冲写满时发布才会阻塞.
	BufferSize int64 `mapstructure:"buffer_size" rule:"min=0"`
	// Persistent 为 true 时，晚注册的订阅者也能收到此前发布的消息.
	Persistent bool `mapstructure:"persistent"`
}

// GetMQType 返回当前配置的消息总线类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置消息总线配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeGoChannel)
	v.SetDefault("mq.buffer_size", DefaultMQBufferSize)
	v.SetDefault("mq.persistent", false)
}
