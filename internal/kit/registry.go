package kit

import (
	"sort"

	"github.com/samdwyer/battlekit/internal/ability"
	"github.com/samdwyer/battlekit/internal/executor"
	"github.com/samdwyer/battlekit/internal/gamedata"
)

// Registry maps kit IDs to kits. Unknown IDs resolve to the default kit.
type Registry struct {
	kits     map[string]Kit
	fallback Kit
}

// NewRegistry builds every kit over the catalog's abilities.
func NewRegistry(catalog *gamedata.Catalog, exec *executor.Executor) *Registry {
	parser := ability.NewParser(catalog.Abilities)
	fallback := NewDefault(parser, exec)
	r := &Registry{
		kits:     make(map[string]Kit),
		fallback: fallback,
	}
	r.Register(fallback)
	r.Register(NewBerserker(parser, exec))
	r.Register(NewElementalist(parser, exec))
	r.Register(NewPyromancer(parser, exec))
	return r
}

// Register adds or replaces a kit.
func (r *Registry) Register(k Kit) {
	r.kits[k.ID()] = k
}

// For returns the kit for an ID, or the default kit.
func (r *Registry) For(id string) Kit {
	if k, ok := r.kits[id]; ok {
		return k
	}
	return r.fallback
}

// IDs returns the registered kit IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.kits))
	for id := range r.kits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
