package mapper

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	json "github.com/goccy/go-json"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/kafka/repositories/models"
)

func ToMessage(event domain.Invalidation) (*models.Message, error) {
	serialized, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &models.Message{
		ID:      event.ID,
		Topic:   event.Topic,
		Content: string(serialized),
		Hash:    hash(serialized),
	}, nil
}

var ErrHashMismatch = errors.New("message content does not match its hash")

func FromMessage(message *models.Message) (domain.Invalidation, error) {
	if hash([]byte(message.Content)) != message.Hash {
		return domain.Invalidation{}, ErrHashMismatch
	}

	var event domain.Invalidation
	if err := json.Unmarshal([]byte(message.Content), &event); err != nil {
		return domain.Invalidation{}, err
	}

	return event, nil
}

func hash(content []byte) string {
	sum := sha256.Sum256(content)
	return base64.StdEncoding.EncodeToString(sum[:])
}
