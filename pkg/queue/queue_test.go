package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/filevault/pkg/configs"
	mqc "github.com/yeisme/filevault/pkg/internal/storage/mq"
	"github.com/yeisme/filevault/pkg/queue"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := queue.FileEventPayload{
		Paths:  []string{"alice/docs/a.txt", "alice/docs/b.txt"},
		Source: "upload",
	}

	msg, err := queue.NewWatermillMessage(queue.TopicFileAdded, payload,
		queue.WithProducer("filevault"), queue.WithTraceID("trace-1"))
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	if msg.Metadata.Get("topic") != queue.TopicFileAdded {
		t.Errorf("topic metadata = %q", msg.Metadata.Get("topic"))
	}
	if msg.Metadata.Get("producer") != "filevault" {
		t.Errorf("producer metadata = %q", msg.Metadata.Get("producer"))
	}

	env, err := queue.ParseFileEvent(msg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if env.Header.Topic != queue.TopicFileAdded {
		t.Errorf("header topic = %q", env.Header.Topic)
	}
	if env.Header.Version != queue.PayloadVersionV1 {
		t.Errorf("header version = %q", env.Header.Version)
	}
	if len(env.Payload.Paths) != 2 || env.Payload.Paths[0] != "alice/docs/a.txt" {
		t.Errorf("payload paths = %v", env.Payload.Paths)
	}
	if env.Payload.Source != "upload" {
		t.Errorf("payload source = %q", env.Payload.Source)
	}
}

func TestPublishSubscribeFileEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mqc.New(ctx, &configs.MQConfig{Type: configs.MQTypeGoChannel})
	if err != nil {
		t.Fatalf("create mq client: %v", err)
	}
	defer client.Close()

	ch, err := client.Subscribe(ctx, queue.TopicFileDeleted)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	payload := queue.FileEventPayload{Paths: []string{"bob/old.txt"}, Source: "delete"}
	if err := queue.PublishFileDeleted(client.Publisher(), payload); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-ch:
		env, err := queue.ParseFileEvent(msg)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		msg.Ack()

		if env.Header.Topic != queue.TopicFileDeleted {
			t.Errorf("header topic = %q", env.Header.Topic)
		}
		if len(env.Payload.Paths) != 1 || env.Payload.Paths[0] != "bob/old.txt" {
			t.Errorf("payload paths = %v", env.Payload.Paths)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
