package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
	"github.com/Skotchmaster/stockroom/internal/repo"
	"github.com/Skotchmaster/stockroom/internal/store/memory"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event mykafka.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event.(mykafka.Event)})
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event.Type)
	}
	return out
}

type fakeIndex struct {
	docs    map[string]models.Product
	hits    []string
	failing bool
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	if f.failing {
		return errors.New("cluster down")
	}
	f.docs[p.ID] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

// SearchProducts returns hits when set, otherwise the ids of indexed products
// whose name or description contains query.
func (f *fakeIndex) SearchProducts(_ context.Context, query string, _ int) ([]string, error) {
	if f.failing {
		return nil, errors.New("cluster down")
	}
	if f.hits != nil {
		return f.hits, nil
	}
	needle := strings.ToLower(query)
	var ids []string
	for id, p := range f.docs {
		if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func newTestRepo() *repo.Repo {
	return &repo.Repo{Store: memory.New()}
}
