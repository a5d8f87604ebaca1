package runtime

import (
	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driven"
)

// Registries holds the engine's indices and reasoning types plus the
// shared default settings. Populate it during startup, then treat it as
// immutable: the views handed to services are read-only and request
// handling needs no locking.
type Registries struct {
	defaults   *domain.Settings
	indices    indexRegistry
	reasonings reasoningRegistry
}

// NewRegistries creates an empty Registries with the given defaults.
// nil defaults means domain.DefaultSettings().
func NewRegistries(defaults *domain.Settings) *Registries {
	if defaults == nil {
		defaults = domain.DefaultSettings()
	}
	return &Registries{
		defaults: defaults,
		reasonings: reasoningRegistry{
			factories: make(map[string]driven.ReasoningFactory),
		},
	}
}

// RegisterIndex appends an index. Registration order decides which index
// is the default.
func (r *Registries) RegisterIndex(idx driven.Index) {
	r.indices.indices = append(r.indices.indices, idx)
}

// RegisterReasoning adds a reasoning pipeline factory keyed by its ID
func (r *Registries) RegisterReasoning(f driven.ReasoningFactory) {
	id := f.Info().ID
	if _, exists := r.reasonings.factories[id]; !exists {
		r.reasonings.order = append(r.reasonings.order, id)
	}
	r.reasonings.factories[id] = f
}

// Defaults returns the shared default settings. Callers overlay onto a
// Clone, never onto this object.
func (r *Registries) Defaults() *domain.Settings {
	return r.defaults
}

// Indices returns the index registry view
func (r *Registries) Indices() driven.IndexRegistry {
	return &r.indices
}

// Reasonings returns the reasoning registry view
func (r *Registries) Reasonings() driven.ReasoningRegistry {
	return &r.reasonings
}

type indexRegistry struct {
	indices []driven.Index
}

func (r *indexRegistry) List() []driven.Index {
	return r.indices
}

func (r *indexRegistry) Info() map[string]driven.Index {
	info := make(map[string]driven.Index, len(r.indices))
	for _, idx := range r.indices {
		info[idx.ID()] = idx
	}
	return info
}

type reasoningRegistry struct {
	order     []string
	factories map[string]driven.ReasoningFactory
}

func (r *reasoningRegistry) Lookup(typeID string) (driven.ReasoningFactory, bool) {
	f, ok := r.factories[typeID]
	return f, ok
}

func (r *reasoningRegistry) List() []domain.ReasoningInfo {
	infos := make([]domain.ReasoningInfo, 0, len(r.order))
	for _, id := range r.order {
		infos = append(infos, r.factories[id].Info())
	}
	return infos
}
