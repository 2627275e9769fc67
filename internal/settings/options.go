package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/romangod6/sitemapd/internal/models"
	"github.com/romangod6/sitemapd/internal/storage"
)

// OptionBackend is the part of storage.Store the option store needs.
type OptionBackend interface {
	GetOption(ctx context.Context, key string) (string, error)
	SetOption(ctx context.Context, key, value string) error
}

// OptionStore keeps settings as rows of the options table.
type OptionStore struct {
	backend OptionBackend
}

func NewOptionStore(backend OptionBackend) *OptionStore {
	return &OptionStore{backend: backend}
}

func (s *OptionStore) TypeSettings(ctx context.Context, key string) (models.TypeSettings, error) {
	include, found, err := s.get(ctx, IncludeKey(key))
	if err != nil {
		return models.TypeSettings{}, err
	}
	frequency, _, err := s.get(ctx, FrequencyKey(key))
	if err != nil {
		return models.TypeSettings{}, err
	}
	priority, _, err := s.get(ctx, PriorityKey(key))
	if err != nil {
		return models.TypeSettings{}, err
	}

	return models.TypeSettings{
		Included:  parseIncluded(include, found),
		Frequency: frequency,
		Priority:  priority,
	}, nil
}

func (s *OptionStore) SaveTypeSettings(ctx context.Context, key string, ts models.TypeSettings) error {
	values := [][2]string{
		{IncludeKey(key), formatIncluded(ts.Included)},
		{FrequencyKey(key), ts.Frequency},
		{PriorityKey(key), ts.Priority},
	}
	for _, kv := range values {
		if err := s.backend.SetOption(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to save %s: %w", kv[0], err)
		}
	}
	return nil
}

func (s *OptionStore) get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.backend.GetOption(ctx, key)
	if errors.Is(err, storage.ErrOptionNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, true, nil
}
