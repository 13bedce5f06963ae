package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lamda/internal/infra"
	"lamda/internal/model"

	"github.com/redis/go-redis/v9"
)

// ClienteHTTP talks to the LAMDA backend over REST. All calls go through a
// circuit breaker so a dead backend fast-fails instead of piling up
// timeouts. GET lookups (pack links, recipes, suggestions) can be served
// from a shared redis cache with a short TTL; the per-session mapping cache
// in internal/produccion sits above this and is unaffected.
type ClienteHTTP struct {
	baseURL    string
	httpClient *http.Client
	breaker    *infra.CircuitBreaker
	rdb        *redis.Client // nil = cache disabled
	cacheTTL   time.Duration
}

type OpcionHTTP func(*ClienteHTTP)

// ConCacheRedis enables the shared read-through cache for GET lookups.
func ConCacheRedis(rdb *redis.Client, ttl time.Duration) OpcionHTTP {
	return func(c *ClienteHTTP) {
		c.rdb = rdb
		c.cacheTTL = ttl
	}
}

// ConTimeout overrides the default 15s transport timeout.
func ConTimeout(d time.Duration) OpcionHTTP {
	return func(c *ClienteHTTP) { c.httpClient.Timeout = d }
}

func NewClienteHTTP(baseURL string, cb *infra.CircuitBreaker, opts ...OpcionHTTP) *ClienteHTTP {
	c := &ClienteHTTP{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker:    cb,
		cacheTTL:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Cliente = (*ClienteHTTP)(nil)

// ── Contract methods ──────────────────────────────────────────────────────────

func (c *ClienteHTTP) Faltantes(ctx context.Context) ([]model.Faltante, error) {
	var out []model.Faltante
	if err := c.getJSON(ctx, "/api/produccion/faltantes", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ClienteHTTP) VinculoPack(ctx context.Context, numero string) (*model.VinculoPack, error) {
	var out model.VinculoPack
	path := "/api/articulos/" + url.PathEscape(numero) + "/vinculo-pack"
	if err := c.getJSON(ctx, path, "vinculo:"+numero, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClienteHTTP) Receta(ctx context.Context, numero string) (*model.Receta, error) {
	var out model.Receta
	path := "/api/articulos/" + url.PathEscape(numero) + "/receta"
	if err := c.getJSON(ctx, path, "receta:"+numero, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClienteHTTP) Sugerencia(ctx context.Context, numero string) (*model.Sugerencia, error) {
	var out model.Sugerencia
	path := "/api/articulos/" + url.PathEscape(numero) + "/sugerencia"
	if err := c.getJSON(ctx, path, "sugerencia:"+numero, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClienteHTTP) GuardarSugerencia(ctx context.Context, origen, sustituto string) error {
	path := "/api/articulos/" + url.PathEscape(origen) + "/sugerencia"
	body := map[string]string{"sustituto_numero": sustituto}
	if err := c.send(ctx, http.MethodPut, path, body, nil); err != nil {
		return err
	}
	c.invalidar(ctx, "sugerencia:"+origen)
	return nil
}

func (c *ClienteHTTP) EliminarSugerencia(ctx context.Context, origen string) error {
	path := "/api/articulos/" + url.PathEscape(origen) + "/sugerencia"
	if err := c.send(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.invalidar(ctx, "sugerencia:"+origen)
	return nil
}

func (c *ClienteHTTP) IngredientesConStock(ctx context.Context, carroID int64) ([]model.IngredienteStock, error) {
	var out []model.IngredienteStock
	path := fmt.Sprintf("/api/produccion/carros/%d/ingredientes-stock", carroID)
	// Stock snapshots must be fresh per dialog session — never cached.
	if err := c.getJSON(ctx, path, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ClienteHTTP) TransferirIngrediente(ctx context.Context, t Transferencia) error {
	return c.send(ctx, http.MethodPost, "/api/produccion/traspasos", t, nil)
}

func (c *ClienteHTTP) CrearCarro(ctx context.Context, usuario string) (int64, error) {
	var out model.Carro
	body := map[string]string{"usuario": usuario}
	if err := c.send(ctx, http.MethodPost, "/api/produccion/carros", body, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *ClienteHTTP) AgregarItemCarro(ctx context.Context, carroID int64, item ItemCarro) error {
	path := fmt.Sprintf("/api/produccion/carros/%d/articulos", carroID)
	return c.send(ctx, http.MethodPost, path, item, nil)
}

// ── Transport plumbing ────────────────────────────────────────────────────────

// getJSON performs a GET, optionally through the redis read-through cache.
// cacheKey == "" disables caching for that call.
func (c *ClienteHTTP) getJSON(ctx context.Context, path, cacheKey string, out interface{}) error {
	if c.rdb != nil && cacheKey != "" {
		if cached, err := c.rdb.Get(ctx, "lamda:"+cacheKey).Bytes(); err == nil {
			if jsonErr := json.Unmarshal(cached, out); jsonErr == nil {
				return nil
			}
		}
	}

	if err := c.send(ctx, http.MethodGet, path, nil, out); err != nil {
		return err
	}

	if c.rdb != nil && cacheKey != "" {
		if data, err := json.Marshal(out); err == nil {
			// Best effort — a cache write failure never fails the lookup.
			_ = c.rdb.Set(ctx, "lamda:"+cacheKey, data, c.cacheTTL).Err()
		}
	}
	return nil
}

func (c *ClienteHTTP) invalidar(ctx context.Context, cacheKey string) {
	if c.rdb != nil {
		_ = c.rdb.Del(ctx, "lamda:"+cacheKey).Err()
	}
}

// send issues one HTTP request through the circuit breaker and decodes the
// JSON response into out when non-nil. 404 maps to ErrNoEncontrado outside
// the breaker: a clean NotFound is a valid answer, not a backend failure,
// and must never push the breaker toward open.
func (c *ClienteHTTP) send(ctx context.Context, method, path string, body, out interface{}) error {
	var notFound bool
	err := c.breaker.Execute(func() error {
		var reader io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("lamda: marshal body: %w", err)
			}
			reader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("lamda: create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("lamda: backend unreachable: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			notFound = true
			return nil
		case resp.StatusCode >= 400:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("lamda: %s %s devolvió %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("lamda: decode response: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if notFound {
		return ErrNoEncontrado
	}
	return nil
}
