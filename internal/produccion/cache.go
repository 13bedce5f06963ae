// Package produccion implements the cart-configuration engine: deficit
// resolution (pack expansion + substitute conversion + consolidation),
// per-session selection state, cart assembly against the LAMDA backend and
// the chained ingredient-transfer flow.
package produccion

import (
	"context"
	"errors"
	"sync"

	"lamda/internal/gateway"
	"lamda/internal/model"

	"golang.org/x/sync/singleflight"
)

// CacheMapeos memoizes pack, recipe and suggestion lookups for one
// configuration session. Misses are fetched once through singleflight, so
// concurrent resolution of the same article never duplicates an in-flight
// remote call. A NotFound is stored as a nil entry (negative caching):
// "not a pack" is an answer, not a miss.
//
// The cache lives and dies with its session — a new session starts empty,
// which is what keeps mappings from going stale across sessions.
type CacheMapeos struct {
	gw    gateway.Cliente
	vuelo singleflight.Group

	mu          sync.RWMutex
	vinculos    map[string]*model.VinculoPack
	recetas     map[string]*model.Receta
	sugerencias map[string]*model.Sugerencia
}

func NewCacheMapeos(gw gateway.Cliente) *CacheMapeos {
	return &CacheMapeos{
		gw:          gw,
		vinculos:    make(map[string]*model.VinculoPack),
		recetas:     make(map[string]*model.Receta),
		sugerencias: make(map[string]*model.Sugerencia),
	}
}

// VinculoPack returns the pack mapping for an article, or nil when the
// article is known not to be a pack. A non-nil error means the lookup
// itself failed and nothing was cached.
func (c *CacheMapeos) VinculoPack(ctx context.Context, numero string) (*model.VinculoPack, error) {
	c.mu.RLock()
	v, conocido := c.vinculos[numero]
	c.mu.RUnlock()
	if conocido {
		return v, nil
	}

	res, err, _ := c.vuelo.Do("vinculo:"+numero, func() (interface{}, error) {
		v, err := c.gw.VinculoPack(ctx, numero)
		if err != nil && !errors.Is(err, gateway.ErrNoEncontrado) {
			return nil, err
		}
		c.mu.Lock()
		c.vinculos[numero] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*model.VinculoPack), nil
}

// Receta returns the article's recipe, or nil when it has none.
func (c *CacheMapeos) Receta(ctx context.Context, numero string) (*model.Receta, error) {
	c.mu.RLock()
	r, conocido := c.recetas[numero]
	c.mu.RUnlock()
	if conocido {
		return r, nil
	}

	res, err, _ := c.vuelo.Do("receta:"+numero, func() (interface{}, error) {
		r, err := c.gw.Receta(ctx, numero)
		if err != nil && !errors.Is(err, gateway.ErrNoEncontrado) {
			return nil, err
		}
		c.mu.Lock()
		c.recetas[numero] = r
		c.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*model.Receta), nil
}

// Sugerencia returns the configured substitute mapping for an origin
// article, or nil when none is configured.
func (c *CacheMapeos) Sugerencia(ctx context.Context, numero string) (*model.Sugerencia, error) {
	c.mu.RLock()
	s, conocido := c.sugerencias[numero]
	c.mu.RUnlock()
	if conocido {
		return s, nil
	}

	res, err, _ := c.vuelo.Do("sugerencia:"+numero, func() (interface{}, error) {
		s, err := c.gw.Sugerencia(ctx, numero)
		if err != nil && !errors.Is(err, gateway.ErrNoEncontrado) {
			return nil, err
		}
		c.mu.Lock()
		c.sugerencias[numero] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*model.Sugerencia), nil
}

// InvalidarSugerencia drops the cached suggestion for an origin article
// after its mapping was created, replaced or removed.
func (c *CacheMapeos) InvalidarSugerencia(numero string) {
	c.mu.Lock()
	delete(c.sugerencias, numero)
	c.mu.Unlock()
}

// Limpiar empties every map. Called when a session is reused for a fresh
// resolution pass.
func (c *CacheMapeos) Limpiar() {
	c.mu.Lock()
	c.vinculos = make(map[string]*model.VinculoPack)
	c.recetas = make(map[string]*model.Receta)
	c.sugerencias = make(map[string]*model.Sugerencia)
	c.mu.Unlock()
}
