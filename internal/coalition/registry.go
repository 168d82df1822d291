package coalition

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry owns every coalition in the world, active and dissolved, keyed by
// id. Countries hold membership back-references only through lookups here.
type Registry struct {
	coalitions map[string]*Coalition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{coalitions: make(map[string]*Coalition)}
}

// Add registers a coalition. Returns false on duplicate id.
func (r *Registry) Add(c *Coalition) bool {
	if _, exists := r.coalitions[c.ID]; exists {
		return false
	}
	r.coalitions[c.ID] = c
	return true
}

// Get returns the coalition with the given id.
func (r *Registry) Get(id string) (*Coalition, bool) {
	c, ok := r.coalitions[id]
	return c, ok
}

// All returns every coalition in ascending id order.
func (r *Registry) All() []*Coalition {
	ids := maps.Keys(r.coalitions)
	slices.Sort(ids)
	out := make([]*Coalition, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.coalitions[id])
	}
	return out
}

// Active returns the active coalitions in ascending id order.
func (r *Registry) Active() []*Coalition {
	var out []*Coalition
	for _, c := range r.All() {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out
}

// MemberOf returns the active coalitions the country belongs to, in
// ascending id order.
func (r *Registry) MemberOf(country string) []*Coalition {
	var out []*Coalition
	for _, c := range r.All() {
		if c.IsActive() && c.HasMember(country) {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the total number of coalitions, dissolved included.
func (r *Registry) Len() int {
	return len(r.coalitions)
}
