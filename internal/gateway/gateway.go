// Package gateway is the typed client for the LAMDA backend REST API.
// Articles, recipes, pack links, suggestions, stock and carts are persisted
// by that backend; this module only consumes its contracts.
package gateway

import (
	"context"
	"errors"

	"lamda/internal/model"
)

// ErrNoEncontrado distinguishes a clean NotFound from a transport failure.
// Callers negative-cache the former and fail open on the latter.
var ErrNoEncontrado = errors.New("recurso no encontrado")

// ItemCarro is one line added to an already-created cart.
type ItemCarro struct {
	ArticuloNumero string  `json:"articulo_numero"`
	Descripcion    string  `json:"descripcion"`
	Cantidad       float64 `json:"cantidad"`
	Usuario        string  `json:"usuario"`
}

// Transferencia is the payload of a stock transfer between ingredients.
type Transferencia struct {
	OrigenID  int64   `json:"origen_id"`
	DestinoID int64   `json:"destino_id"`
	Cantidad  float64 `json:"cantidad"`
	CarroID   int64   `json:"carro_id"`
	Usuario   string  `json:"usuario"`
}

// Cliente is the full backend contract consumed by the configuration engine.
// Every method is a single remote call; timeouts live in the transport.
type Cliente interface {
	// Faltantes returns the current deficit lines for the active plan.
	Faltantes(ctx context.Context) ([]model.Faltante, error)

	// VinculoPack returns the pack→component mapping for an article,
	// or ErrNoEncontrado when the article is not a pack.
	VinculoPack(ctx context.Context, numero string) (*model.VinculoPack, error)

	// Receta returns the recipe owned by an article, or ErrNoEncontrado.
	Receta(ctx context.Context, numero string) (*model.Receta, error)

	// Sugerencia returns the configured substitute for an origin article,
	// or ErrNoEncontrado when none is configured.
	Sugerencia(ctx context.Context, numero string) (*model.Sugerencia, error)

	// GuardarSugerencia configures (or replaces) the substitute for an origin.
	GuardarSugerencia(ctx context.Context, origen, sustituto string) error

	// EliminarSugerencia removes the configured substitute for an origin.
	EliminarSugerencia(ctx context.Context, origen string) error

	// IngredientesConStock returns the stock snapshot for a cart's plan.
	IngredientesConStock(ctx context.Context, carroID int64) ([]model.IngredienteStock, error)

	// TransferirIngrediente executes one stock transfer.
	TransferirIngrediente(ctx context.Context, t Transferencia) error

	// CrearCarro creates a cart for the consumer and returns its issued id.
	CrearCarro(ctx context.Context, usuario string) (int64, error)

	// AgregarItemCarro adds one line to an existing cart.
	AgregarItemCarro(ctx context.Context, carroID int64, item ItemCarro) error
}
