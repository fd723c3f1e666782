package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 文件仓库领域 --------------------------

// FileEventPayload 文件增删事件的负载. Paths 是已经过确界校验的
// owner 相对路径（含 owner 前缀一级目录），永远不含 ".." 或绝对根.
type FileEventPayload struct {
	Paths []string `json:"paths"`
	// Source 触发来源，如 upload/mkdir/delete，仅用于日志与审计.
	Source string `json:"source,omitempty"`
}
