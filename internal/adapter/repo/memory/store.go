// Package memory keeps worlds in process memory. It backs tests and the
// "memory" storage driver.
package memory

import (
	"sync"
	"time"

	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

type worldRecord struct {
	m         *world.WorldMap
	settings  agent.Settings
	createdAt time.Time
	links     map[string]bool
}

type Store struct {
	mu        sync.RWMutex
	worlds    map[string]*worldRecord
	players   map[string]map[string]survival.PlayerState
	resources map[string]world.Resource
}

func NewStore() *Store {
	return &Store{
		worlds:    make(map[string]*worldRecord),
		players:   make(map[string]map[string]survival.PlayerState),
		resources: make(map[string]world.Resource),
	}
}
