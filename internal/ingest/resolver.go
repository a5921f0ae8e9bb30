package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AliasLookup interface {
	FindClientID(ctx context.Context, name string) (int64, error)
}

type ClientLookup interface {
	FindIDByCompanyName(ctx context.Context, name string) (int64, error)
}

type resolution struct {
	clientID int64
	found    bool
}

// Resolver maps account references to client ids. The alias table wins over
// an exact company name match. Answers, including misses, are remembered for
// the lifetime of the Resolver, so use one per import.
type Resolver struct {
	aliases AliasLookup
	clients ClientLookup
	cache   map[string]resolution
}

func NewResolver(aliases AliasLookup, clients ClientLookup) *Resolver {
	return &Resolver{
		aliases: aliases,
		clients: clients,
		cache:   make(map[string]resolution),
	}
}

// Resolve returns found=false when no client matches. err is only set when a
// lookup itself failed.
func (r *Resolver) Resolve(ctx context.Context, ref string) (clientID int64, found bool, err error) {
	name := ExtractClientName(ref)
	if name == "" {
		return 0, false, nil
	}
	if res, ok := r.cache[name]; ok {
		return res.clientID, res.found, nil
	}

	if r.aliases != nil {
		id, err := r.aliases.FindClientID(ctx, name)
		switch {
		case err == nil:
			r.cache[name] = resolution{clientID: id, found: true}
			return id, true, nil
		case !errors.Is(err, entity.ErrNotFound):
			return 0, false, fmt.Errorf("looking up alias %q: %w", name, err)
		}
	}

	id, err := r.clients.FindIDByCompanyName(ctx, name)
	switch {
	case err == nil:
		r.cache[name] = resolution{clientID: id, found: true}
		return id, true, nil
	case errors.Is(err, entity.ErrNotFound):
		r.cache[name] = resolution{}
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("looking up client %q: %w", name, err)
	}
}
