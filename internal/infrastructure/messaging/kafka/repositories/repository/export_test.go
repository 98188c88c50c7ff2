package repository

import (
	"context"
	"sync"

	sdk "github.com/segmentio/kafka-go"
)

// FakeBroker stands in for both ends of a Kafka topic in tests.
type FakeBroker struct {
	mu        sync.Mutex
	written   []sdk.Message
	committed []sdk.Message
	inbound   chan sdk.Message
}

func NewFakeBroker() *FakeBroker {
	return &FakeBroker{inbound: make(chan sdk.Message, 16)}
}

func (b *FakeBroker) Deliver(msg sdk.Message) {
	b.inbound <- msg
}

func (b *FakeBroker) Written() []sdk.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sdk.Message(nil), b.written...)
}

func (b *FakeBroker) Committed() []sdk.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sdk.Message(nil), b.committed...)
}

func (b *FakeBroker) WriteMessages(_ context.Context, msgs ...sdk.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.written = append(b.written, msgs...)
	return nil
}

func (b *FakeBroker) FetchMessage(ctx context.Context) (sdk.Message, error) {
	select {
	case <-ctx.Done():
		return sdk.Message{}, ctx.Err()
	case msg := <-b.inbound:
		return msg, nil
	}
}

func (b *FakeBroker) CommitMessages(_ context.Context, msgs ...sdk.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.committed = append(b.committed, msgs...)
	return nil
}

func (b *FakeBroker) Close() error { return nil }

func NewMessageQueueWithBroker(params KafkaMessageQueueParams, broker *FakeBroker) *KafkaMessageQueue {
	return newMessageQueue(params, broker, broker)
}
