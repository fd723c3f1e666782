package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishFileAdded 发布 fv.fs.added 事件。
// 在文件或目录成功落盘之后调用，通知索引器做单批快速更新。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishFileAdded(pub message.Publisher, payload FileEventPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileAdded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileAdded, msg)
}

// PublishFileDeleted 发布 fv.fs.deleted 事件。
// 在文件或目录成功从磁盘删除之后调用，索引器会对这些路径做精确删除。
func PublishFileDeleted(pub message.Publisher, payload FileEventPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileDeleted, msg)
}

// ParseFileEvent 将 Watermill 消息解析为强类型 Envelope（FileEventPayload）。
func ParseFileEvent(msg *message.Message) (Message[FileEventPayload], error) {
	return ParseWatermillMessage[FileEventPayload](msg)
}
