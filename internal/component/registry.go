// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web blank-imports the
// components, builds one Env, calls Init(env) on each, and then lets each
// component add its routes to the shared router.  `linkbio migrate` applies
// every component's Migrations() in Order().

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Migrations() may return nil if the component has no schema.  Routes()
// registers absolute paths on the shared router, e.g.:
//
//	func (c *Links) Routes(r chi.Router) {
//	    r.With(c.env.RequireUser(), c.env.RequirePage()).Route("/api/links", func(r chi.Router) { ... })
//	}
type Component interface {
	Name() string
	// Order sorts migrations so foreign keys resolve; lower runs first.
	Order() int
	Migrations() []string
	Init(Env) error
	Routes(r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  Registering the
// same name twice panics.
func Register(c Component) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[c.Name()]; dup {
		panic("component: duplicate registration of " + c.Name())
	}
	registry[c.Name()] = c
}

// All returns every registered component sorted by Order, then Name.
func All() []Component {
	mu.RLock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order() != out[j].Order() {
			return out[i].Order() < out[j].Order()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}
