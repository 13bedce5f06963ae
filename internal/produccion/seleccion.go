package produccion

import (
	"math"
	"sort"
	"sync"
)

// EntradaSeleccion is one resolved demand line marked for inclusion in a
// cart, with a user-editable quantity overriding the resolver's default.
type EntradaSeleccion struct {
	ArticuloNumero string  `json:"articulo_numero"`
	Descripcion    string  `json:"descripcion"`
	Cantidad       float64 `json:"cantidad"`
	Seleccionado   bool    `json:"seleccionado"`
}

// Seleccion tracks the lines chosen for the next cart. Entries exist only
// between a resolution pass and the cart assembly (or abandonment) that
// follows it.
type Seleccion struct {
	mu       sync.Mutex
	usuario  string
	entradas map[string]*EntradaSeleccion
}

func NuevaSeleccion(usuario string) *Seleccion {
	return &Seleccion{
		usuario:  usuario,
		entradas: make(map[string]*EntradaSeleccion),
	}
}

func (s *Seleccion) Usuario() string { return s.usuario }

// Seleccionar inserts the line with the resolver's default quantity, or
// re-marks an existing entry without touching its (possibly edited)
// quantity.
func (s *Seleccion) Seleccionar(numero, descripcion string, cantidadDefecto float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entradas[numero]; ok {
		e.Seleccionado = true
		return
	}
	s.entradas[numero] = &EntradaSeleccion{
		ArticuloNumero: numero,
		Descripcion:    descripcion,
		Cantidad:       cantidadDefecto,
		Seleccionado:   true,
	}
}

// Quitar removes the entry entirely, so re-selecting restarts from the
// resolver default instead of a stale edit.
func (s *Seleccion) Quitar(numero string) {
	s.mu.Lock()
	delete(s.entradas, numero)
	s.mu.Unlock()
}

// FijarCantidad overwrites the entry's quantity. Non-finite or negative
// values — and unknown articles — are rejected as a no-op, leaving the
// previous value in place. Returns whether the value was applied.
func (s *Seleccion) FijarCantidad(numero string, cantidad float64) bool {
	if math.IsNaN(cantidad) || math.IsInf(cantidad, 0) || cantidad < 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entradas[numero]
	if !ok {
		return false
	}
	e.Cantidad = cantidad
	return true
}

// Lista returns a snapshot of all entries, sorted by article code.
func (s *Seleccion) Lista() []EntradaSeleccion {
	s.mu.Lock()
	defer s.mu.Unlock()
	lista := make([]EntradaSeleccion, 0, len(s.entradas))
	for _, e := range s.entradas {
		lista = append(lista, *e)
	}
	sort.Slice(lista, func(i, j int) bool { return lista[i].ArticuloNumero < lista[j].ArticuloNumero })
	return lista
}

// Listo reports whether a cart can be assembled: a consumer is present
// and at least one selected entry has a positive quantity.
func (s *Seleccion) Listo() bool {
	if s.usuario == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entradas {
		if e.Seleccionado && e.Cantidad > 0 {
			return true
		}
	}
	return false
}

// Limpiar removes every entry. Called after a completed assembly.
func (s *Seleccion) Limpiar() {
	s.mu.Lock()
	s.entradas = make(map[string]*EntradaSeleccion)
	s.mu.Unlock()
}
