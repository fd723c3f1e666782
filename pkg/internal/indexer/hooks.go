package indexer

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/filevault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/queue"
)

// SubscribeHooks 订阅文件事件，把增删同步到索引.
// 每个主题一个独立的消费 goroutine，发布方从不等待索引工作.
// 处理失败时的行为由 index.strict_hooks 决定：panic 或记日志后丢弃.
func (ix *Indexer) SubscribeHooks(ctx context.Context, client *mq.Client) error {
	added, err := client.Subscribe(ctx, queue.TopicFileAdded)
	if err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", queue.TopicFileAdded, err)
	}

	deleted, err := client.Subscribe(ctx, queue.TopicFileDeleted)
	if err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", queue.TopicFileDeleted, err)
	}

	go ix.consumeFileEvents(added, ix.OnFilesAdded)
	go ix.consumeFileEvents(deleted, ix.OnFilesDeleted)

	return nil
}

func (ix *Indexer) consumeFileEvents(msgs <-chan *message.Message, handle func([]string) error) {
	for msg := range msgs {
		env, err := queue.ParseFileEvent(msg)
		if err != nil {
			ix.hookFailed(err, nil)
			msg.Ack()

			continue
		}

		if err := handle(env.Payload.Paths); err != nil {
			ix.hookFailed(err, env.Payload.Paths)
		}

		msg.Ack()
	}
}

func (ix *Indexer) hookFailed(err error, paths []string) {
	if ix.cfg.StrictHooks {
		panic(fmt.Sprintf("index hook failed: %v (paths: %v)", err, paths))
	}

	nlog.Logger().Error().Err(err).Strs("paths", paths).Msg("index hook failed, update dropped")
}
