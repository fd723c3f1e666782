// Package mq 提供基于 Watermill 库的进程内事件总线.
//
// 文件仓库的变更事件（新增/删除）只在本进程内流转：发布方是文件服务，
// 订阅方是索引器的快速路径. 使用 GoChannel 实现，即"带类型信封的
// go channel 发布/订阅"——发布调用本身不执行任何订阅者逻辑，订阅者
// 全部是独立 goroutine，从各自的通道读取消息.
//
// 使用示例：
//
//	client, err := mq.New(ctx, &cfg.MQ)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	// 发布消息
//	msg := message.NewMessage(watermill.NewUUID(), []byte("hello"))
//	err = client.Publish(ctx, "topic", msg)
//
//	// 订阅主题
//	ch, err := client.Subscribe(ctx, "topic")
//	for m := range ch {
//		fmt.Println(string(m.Payload))
//		m.Ack()
//	}
package mq

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/filevault/pkg/configs"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// Client 封装 watermill Publisher 与 Subscriber.
type Client struct {
	bus *gochannel.GoChannel
}

// New 按配置构建进程内事件总线.
func New(ctx context.Context, cfg *configs.MQConfig) (*Client, error) {
	if cfg.Type != configs.MQTypeGoChannel {
		return nil, fmt.Errorf("unsupported mq type: %s", cfg.Type)
	}

	logger := &zerologAdapter{l: nlog.Logger()}

	bus := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            cfg.BufferSize,
		Persistent:                     cfg.Persistent,
		BlockPublishUntilSubscriberAck: false,
	}, logger)

	nlog.Logger().Info().Str("type", string(cfg.Type)).Msg("事件总线已初始化")

	return &Client{bus: bus}, nil
}

// Publisher 返回底层 Publisher，供 queue 包的发布辅助函数使用.
func (c *Client) Publisher() message.Publisher {
	return c.bus
}

// Publish 便捷发布.
func (c *Client) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.bus == nil {
		return fmt.Errorf("mq publisher not initialized")
	}

	for _, m := range msgs {
		if err := c.bus.Publish(topic, m); err != nil {
			return err
		}
	}

	return nil
}

// Subscribe 便捷订阅. 返回的通道在 ctx 取消或 Close 时关闭.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.bus == nil {
		return nil, fmt.Errorf("mq subscriber not initialized")
	}

	ch, err := c.bus.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}

	return ch, nil
}

// Close 关闭资源.
func (c *Client) Close() error {
	if c == nil || c.bus == nil {
		return nil
	}

	return c.bus.Close()
}
