// Package search maintains a full-text index over chat messages.
// Indexing is best-effort: a failed index write never blocks a message
// from being persisted or broadcast.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"

	"story-chat/domain"
)

// Hit is a single search result, shaped like the wire message payload.
type Hit struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func Open(path string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, fmt.Errorf("opening bluge index: %w", err)
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	if i == nil {
		return nil
	}
	return i.writer.Close()
}

// IndexMessage upserts a message document keyed by its ID.
// A nil Index silently skips, which disables search.
func (i *Index) IndexMessage(m domain.Message) error {
	if i == nil {
		return nil
	}

	doc := bluge.NewDocument(m.ID.String()).
		AddField(bluge.NewTextField("text", m.Text).StoreValue()).
		AddField(bluge.NewKeywordField("user", m.Username).StoreValue()).
		AddField(bluge.NewStoredOnlyField("time", []byte(m.Time)))

	return i.writer.Update(doc.ID(), doc)
}

// Search runs a match query against the message text and returns up to
// limit hits with their stored fields.
func (i *Index) Search(ctx context.Context, terms string, limit int) ([]Hit, error) {
	if i == nil {
		return nil, nil
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening index reader: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("closing index reader", "error", err)
		}
	}()

	query := bluge.NewMatchQuery(terms).SetField("text")
	request := bluge.NewTopNSearch(limit, query)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	hits := make([]Hit, 0, limit)
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "user":
				hit.User = string(value)
			case "text":
				hit.Text = string(value)
			case "time":
				hit.Time = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
