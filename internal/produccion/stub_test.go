package produccion

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lamda/internal/gateway"
	"lamda/internal/model"
)

// clienteStub is an in-memory backend for the engine tests. Lookup
// counters expose how many remote calls each article cost, which is what
// the cache tests assert on.
type clienteStub struct {
	mu sync.Mutex

	faltantes   []model.Faltante
	vinculos    map[string]model.VinculoPack
	recetas     map[string]model.Receta
	sugerencias map[string]model.Sugerencia

	ingredientes map[int64][]model.IngredienteStock

	llamadasVinculo    map[string]int
	llamadasReceta     map[string]int
	llamadasSugerencia map[string]int

	fallaVinculo      bool
	fallaCrearCarro   bool
	fallaAgregarItems map[string]string // articulo → error message
	fallaTraspaso     bool

	carrosCreados  int
	itemsAgregados map[int64][]gateway.ItemCarro
	traspasos      []gateway.Transferencia
}

func nuevoStub() *clienteStub {
	return &clienteStub{
		vinculos:           make(map[string]model.VinculoPack),
		recetas:            make(map[string]model.Receta),
		sugerencias:        make(map[string]model.Sugerencia),
		ingredientes:       make(map[int64][]model.IngredienteStock),
		llamadasVinculo:    make(map[string]int),
		llamadasReceta:     make(map[string]int),
		llamadasSugerencia: make(map[string]int),
		fallaAgregarItems:  make(map[string]string),
		itemsAgregados:     make(map[int64][]gateway.ItemCarro),
	}
}

var _ gateway.Cliente = (*clienteStub)(nil)

func (s *clienteStub) Faltantes(ctx context.Context) ([]model.Faltante, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Faltante(nil), s.faltantes...), nil
}

func (s *clienteStub) VinculoPack(ctx context.Context, numero string) (*model.VinculoPack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.llamadasVinculo[numero]++
	if s.fallaVinculo {
		return nil, errors.New("backend caido")
	}
	v, ok := s.vinculos[numero]
	if !ok {
		return nil, gateway.ErrNoEncontrado
	}
	return &v, nil
}

func (s *clienteStub) Receta(ctx context.Context, numero string) (*model.Receta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.llamadasReceta[numero]++
	r, ok := s.recetas[numero]
	if !ok {
		return nil, gateway.ErrNoEncontrado
	}
	return &r, nil
}

func (s *clienteStub) Sugerencia(ctx context.Context, numero string) (*model.Sugerencia, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.llamadasSugerencia[numero]++
	sug, ok := s.sugerencias[numero]
	if !ok {
		return nil, gateway.ErrNoEncontrado
	}
	return &sug, nil
}

func (s *clienteStub) GuardarSugerencia(ctx context.Context, origen, sustituto string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sugerencias[origen] = model.Sugerencia{OrigenNumero: origen, SustitutoNumero: sustituto}
	return nil
}

func (s *clienteStub) EliminarSugerencia(ctx context.Context, origen string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sugerencias[origen]; !ok {
		return gateway.ErrNoEncontrado
	}
	delete(s.sugerencias, origen)
	return nil
}

func (s *clienteStub) IngredientesConStock(ctx context.Context, carroID int64) ([]model.IngredienteStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ings, ok := s.ingredientes[carroID]
	if !ok {
		return nil, gateway.ErrNoEncontrado
	}
	return append([]model.IngredienteStock(nil), ings...), nil
}

func (s *clienteStub) TransferirIngrediente(ctx context.Context, t gateway.Transferencia) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallaTraspaso {
		return errors.New("el backend rechazo el traspaso")
	}
	s.traspasos = append(s.traspasos, t)
	return nil
}

func (s *clienteStub) CrearCarro(ctx context.Context, usuario string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallaCrearCarro {
		return 0, errors.New("no se pudo crear el carro")
	}
	s.carrosCreados++
	return int64(1000 + s.carrosCreados), nil
}

func (s *clienteStub) AgregarItemCarro(ctx context.Context, carroID int64, item gateway.ItemCarro) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := s.fallaAgregarItems[item.ArticuloNumero]; ok {
		return fmt.Errorf("%s", msg)
	}
	s.itemsAgregados[carroID] = append(s.itemsAgregados[carroID], item)
	return nil
}

// ── Seed helpers ─────────────────────────────────────────────────────────────

func faltante(numero string, pedir, disponible float64) model.Faltante {
	return model.Faltante{
		Articulo:           model.Articulo{Numero: numero, Descripcion: "articulo " + numero},
		CantidadAPedir:     pedir,
		CantidadDisponible: disponible,
	}
}

func (s *clienteStub) conVinculo(pack, componente string, unidades float64) {
	s.vinculos[pack] = model.VinculoPack{
		ArticuloNumero:   pack,
		ComponenteNumero: componente,
		Descripcion:      "componente " + componente,
		UnidadesPorPack:  unidades,
	}
}

func (s *clienteStub) conReceta(numero string, ingredientes ...model.IngredienteReceta) {
	s.recetas[numero] = model.Receta{ArticuloNumero: numero, Ingredientes: ingredientes}
}

func ingrediente(nombre string, cantidad float64) model.IngredienteReceta {
	return model.IngredienteReceta{Nombre: nombre, Cantidad: cantidad, Unidad: "kg"}
}

func (s *clienteStub) conSugerencia(origen, sustituto string) {
	s.sugerencias[origen] = model.Sugerencia{OrigenNumero: origen, SustitutoNumero: sustituto}
}
