// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：fv.<域>.<动作>，尽量稳定且向后兼容.
// 域：fs(文件仓库)、index(索引)
// 动作：added/deleted 等

const (
	// 文件仓库领域.
	TopicFileAdded   = "fv.fs.added"   // 文件或目录已写入磁盘（含批量上传），负载携带 owner 相对路径
	TopicFileDeleted = "fv.fs.deleted" // 文件或目录已从磁盘删除，负载携带 owner 相对路径
)

// FSTopics 文件仓库相关主题集合.
var FSTopics = []string{
	TopicFileAdded, TopicFileDeleted,
}
