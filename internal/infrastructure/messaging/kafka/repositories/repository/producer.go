package repository

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	mapper "github.com/whiteelite/cookadmin/internal/infrastructure/messaging/kafka/repositories/mapper"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...sdk.Message) error
	Close() error
}

// DrainTimeout bounds how long a closing producer keeps writing what is
// still buffered.
const DrainTimeout = 5 * time.Second

// StartProducer writes every invalidation from bucket to the Kafka topic,
// keyed by resource topic so each resource keeps its order on one partition.
// Once drain is closed it writes whatever is still buffered and returns.
func StartProducer(
	ctx context.Context,
	wg *sync.WaitGroup,
	writer messageWriter,
	bucket <-chan domain.Invalidation,
	errors chan<- error,
	drain <-chan struct{},
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-drain:
			flush(writer, bucket, errors)
			return
		case event, ok := <-bucket:
			if !ok {
				return
			}
			produce(ctx, writer, event, errors)
		}
	}
}

func flush(writer messageWriter, bucket <-chan domain.Invalidation, errors chan<- error) {
	ctx, cancel := context.WithTimeout(context.Background(), DrainTimeout)
	defer cancel()

	for {
		select {
		case event, ok := <-bucket:
			if !ok {
				return
			}
			produce(ctx, writer, event, errors)
		default:
			return
		}
	}
}

func produce(ctx context.Context, writer messageWriter, event domain.Invalidation, errors chan<- error) {
	model, err := mapper.ToMessage(event)
	if err != nil {
		report(errors, err)
		return
	}

	serialized, err := json.Marshal(model)
	if err != nil {
		report(errors, err)
		return
	}

	err = writer.WriteMessages(ctx, sdk.Message{
		Key:   []byte(model.Topic),
		Value: serialized,
	})
	if err != nil && ctx.Err() == nil {
		report(errors, err)
	}
}

func report(errors chan<- error, err error) {
	select {
	case errors <- err:
	default:
	}
}
