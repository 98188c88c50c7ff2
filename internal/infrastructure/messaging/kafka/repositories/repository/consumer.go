package repository

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	mapper "github.com/whiteelite/cookadmin/internal/infrastructure/messaging/kafka/repositories/mapper"
	models "github.com/whiteelite/cookadmin/internal/infrastructure/messaging/kafka/repositories/models"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (sdk.Message, error)
	CommitMessages(ctx context.Context, msgs ...sdk.Message) error
	Close() error
}

type delivery struct {
	event domain.Invalidation
	raw   sdk.Message
}

// StartConsumer decodes messages into bucket and commits the ones handed
// back on confirmed. Undecodable messages are reported and committed so
// they are not redelivered.
func StartConsumer(
	ctx context.Context,
	wg *sync.WaitGroup,
	reader messageReader,
	bucket chan<- delivery,
	errors chan<- error,
	confirmed <-chan sdk.Message,
) {
	defer wg.Done()

	// Read messages from the reader
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			data, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				report(errors, err)
				continue
			}

			model := new(models.Message)
			if err := json.Unmarshal(data.Value, model); err != nil {
				report(errors, err)
				commit(ctx, reader, errors, data)
				continue
			}

			event, err := mapper.FromMessage(model)
			if err != nil {
				report(errors, err)
				commit(ctx, reader, errors, data)
				continue
			}

			select {
			case <-ctx.Done():
				return
			case bucket <- delivery{event: event, raw: data}:
			}
		}
	}()

	// Confirm messages
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-confirmed:
			commit(ctx, reader, errors, data)
		}
	}
}

func commit(ctx context.Context, reader messageReader, errors chan<- error, data sdk.Message) {
	if err := reader.CommitMessages(ctx, data); err != nil && ctx.Err() == nil {
		report(errors, err)
	}
}
