package progress

import (
	"context"
	"slices"
	"sync"
)

// MemorySnapshots keeps snapshots in process memory.
type MemorySnapshots struct {
	mu    sync.Mutex
	blobs map[[2]string][]byte
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{mu: sync.Mutex{}, blobs: map[[2]string][]byte{}}
}

func (m *MemorySnapshots) Load(_ context.Context, owner, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.blobs[[2]string{owner, key}]), nil
}

func (m *MemorySnapshots) Save(_ context.Context, owner, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[[2]string{owner, key}] = slices.Clone(blob)
	return nil
}
