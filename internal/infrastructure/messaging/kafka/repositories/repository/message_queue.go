package repository

import (
	"context"
	"errors"
	"sync"

	sdk "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	domainrepos "github.com/whiteelite/cookadmin/internal/domain/repositories"
)

// KafkaMessageQueueParams implements repositories.MessageQueueParams
// and provides configuration for initializing KafkaMessageQueue.
type KafkaMessageQueueParams struct {
	// Required
	Brokers []string
	Topic   string
	// GroupID must be unique per console so every instance sees every
	// invalidation.
	GroupID string

	// Optional
	ToProduceBufSize int
	ToConsumeBufSize int
	Logger           *zap.Logger
}

func (p KafkaMessageQueueParams) Get() map[string]any {
	return map[string]any{
		"brokers":         p.Brokers,
		"topic":           p.Topic,
		"groupId":         p.GroupID,
		"toProduceBuffer": p.ToProduceBufSize,
		"toConsumeBuffer": p.ToConsumeBufSize,
	}
}

// KafkaMessageQueue moves invalidations between the local process and a
// Kafka topic shared by every console.
type KafkaMessageQueue struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup
	once   sync.Once

	reader messageReader
	writer messageWriter
	logger *zap.Logger

	toProduce chan domain.Invalidation
	toConsume chan domain.Invalidation

	consBucket    chan delivery
	errors        chan error
	confirmations chan sdk.Message

	drain        chan struct{}
	producerDone chan struct{}
}

// InitializeKafkaMessageQueue creates a KafkaMessageQueue using params.
// Callers should check ValidateKafkaParams first.
func InitializeKafkaMessageQueue(params domainrepos.MessageQueueParams) domainrepos.MessageQueue {
	typed, _ := params.(KafkaMessageQueueParams)

	writer := &sdk.Writer{
		Addr:         sdk.TCP(typed.Brokers...),
		Topic:        typed.Topic,
		RequiredAcks: sdk.RequireAll,
		Balancer:     &sdk.Hash{},
	}

	reader := sdk.NewReader(sdk.ReaderConfig{
		Brokers: typed.Brokers,
		Topic:   typed.Topic,
		GroupID: typed.GroupID,
	})

	return newMessageQueue(typed, reader, writer)
}

func newMessageQueue(params KafkaMessageQueueParams, reader messageReader, writer messageWriter) *KafkaMessageQueue {
	if params.ToProduceBufSize <= 0 {
		params.ToProduceBufSize = 1024
	}
	if params.ToConsumeBufSize <= 0 {
		params.ToConsumeBufSize = 1024
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	mq := &KafkaMessageQueue{
		ctx:           ctx,
		cancel:        cancel,
		wg:            &sync.WaitGroup{},
		reader:        reader,
		writer:        writer,
		logger:        params.Logger,
		toProduce:     make(chan domain.Invalidation, params.ToProduceBufSize),
		toConsume:     make(chan domain.Invalidation, params.ToConsumeBufSize),
		consBucket:    make(chan delivery, params.ToConsumeBufSize),
		errors:        make(chan error, 16),
		confirmations: make(chan sdk.Message, 16),
		drain:         make(chan struct{}),
		producerDone:  make(chan struct{}),
	}

	mq.startWorkers()
	return mq
}

func (q *KafkaMessageQueue) startWorkers() {
	producerWG := &sync.WaitGroup{}
	producerWG.Add(1)
	go StartProducer(q.ctx, producerWG, q.writer, q.toProduce, q.errors, q.drain)
	go func() {
		producerWG.Wait()
		close(q.producerDone)
	}()

	q.wg.Add(1)
	go StartConsumer(q.ctx, q.wg, q.reader, q.consBucket, q.errors, q.confirmations)

	// Bridge consBucket -> toConsume, then confirm for commit
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ctx.Done():
				return
			case d := <-q.consBucket:
				select {
				case <-q.ctx.Done():
					return
				case q.toConsume <- d.event:
				}
				select {
				case <-q.ctx.Done():
					return
				case q.confirmations <- d.raw:
				}
			}
		}
	}()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ctx.Done():
				return
			case err := <-q.errors:
				q.logger.Warn("kafka message queue error", zap.Error(err))
			}
		}
	}()
}

// ToConsumeBuffered exposes invalidations read from Kafka.
func (q *KafkaMessageQueue) ToConsumeBuffered() <-chan domain.Invalidation {
	return q.toConsume
}

// ToProduceBuffered accepts invalidations to write to Kafka.
func (q *KafkaMessageQueue) ToProduceBuffered() chan<- domain.Invalidation {
	return q.toProduce
}

// Close writes what is still buffered for Kafka, stops workers, closes the
// reader and writer, then closes the consumer-facing channel. The producer
// channel stays open so late senders do not panic; anything sent after
// Close is discarded.
func (q *KafkaMessageQueue) Close() {
	q.once.Do(func() {
		close(q.drain)
		<-q.producerDone

		q.cancel()
		q.wg.Wait()

		if q.reader != nil {
			_ = q.reader.Close()
		}
		if q.writer != nil {
			_ = q.writer.Close()
		}

		close(q.toConsume)
	})
}

// Compile-time assertions to ensure interface conformance
var _ domainrepos.MessageQueueConsumer = (*KafkaMessageQueue)(nil)
var _ domainrepos.MessageQueueProducer = (*KafkaMessageQueue)(nil)
var _ domainrepos.MessageQueue = (*KafkaMessageQueue)(nil)
var _ domainrepos.InitializeMessageQueue = InitializeKafkaMessageQueue

// ValidateKafkaParams ensures required params are set.
func ValidateKafkaParams(p KafkaMessageQueueParams) error {
	if len(p.Brokers) == 0 {
		return errors.New("kafka brokers are required")
	}
	if p.Topic == "" {
		return errors.New("kafka topic is required")
	}
	if p.GroupID == "" {
		return errors.New("kafka group id is required")
	}
	return nil
}
