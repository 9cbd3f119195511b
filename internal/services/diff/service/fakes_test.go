package service

import (
	"context"
	"sync"

	dom "diffjar/internal/services/diff/domain"
)

type sourceKey struct {
	id   dom.DiffID
	side dom.SourceSide
}

// memStore is an in memory Storage that records calls
type memStore struct {
	mu      sync.Mutex
	sources map[sourceKey]dom.SourceContent
	diffs   map[dom.DiffID]dom.DifferenceContent
	saves   []sourceKey
	failOn  string
	failErr error
}

func newMemStore() *memStore {
	return &memStore{
		sources: map[sourceKey]dom.SourceContent{},
		diffs:   map[dom.DiffID]dom.DifferenceContent{},
	}
}

func (m *memStore) fail(op string) error {
	if m.failOn == op {
		return m.failErr
	}
	return nil
}

func (m *memStore) SaveSource(_ context.Context, id dom.DiffID, src dom.SourceContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SaveSource"); err != nil {
		return err
	}
	k := sourceKey{id, src.Side}
	m.sources[k] = src
	m.saves = append(m.saves, k)
	return nil
}

func (m *memStore) LoadSource(_ context.Context, id dom.DiffID, side dom.SourceSide) (dom.SourceContent, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("LoadSource"); err != nil {
		return dom.SourceContent{}, false, err
	}
	s, ok := m.sources[sourceKey{id, side}]
	return s, ok, nil
}

func (m *memStore) SaveDiff(_ context.Context, id dom.DiffID, diff dom.DifferenceContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SaveDiff"); err != nil {
		return err
	}
	m.diffs[id] = diff
	return nil
}

func (m *memStore) LoadDiff(_ context.Context, id dom.DiffID) (*dom.DifferenceContent, dom.Readiness, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.diffs[id]; ok {
		return &d, dom.Ready, nil
	}
	for k := range m.sources {
		if k.id == id {
			return nil, dom.NotReady, nil
		}
	}
	return nil, dom.NotFound, nil
}

// recordingPub captures publishes without a subscriber side
type recordingPub struct {
	mu      sync.Mutex
	sources []dom.SourceEnvelope
	ready   []dom.ReadyEnvelope
}

func (p *recordingPub) PublishSource(env dom.SourceEnvelope) {
	p.mu.Lock()
	p.sources = append(p.sources, env)
	p.mu.Unlock()
}

func (p *recordingPub) PublishReady(env dom.ReadyEnvelope) {
	p.mu.Lock()
	p.ready = append(p.ready, env)
	p.mu.Unlock()
}
