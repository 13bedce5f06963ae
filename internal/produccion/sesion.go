package produccion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lamda/internal/gateway"

	"github.com/google/uuid"
)

// Sesion is one configuration session: the consumer working on it, its
// session-scoped mapping cache, the last resolution pass and the current
// selection. Sessions are explicit objects owned by the caller, so several
// can run side by side without shared hidden state.
type Sesion struct {
	ID       uuid.UUID `json:"id"`
	Usuario  string    `json:"usuario"`
	CreadaEn time.Time `json:"creada_en"`

	gw        gateway.Cliente
	cache     *CacheMapeos
	resolutor *Resolutor
	seleccion *Seleccion

	mu           sync.Mutex
	lineas       []LineaResuelta
	estadoArmado EstadoArmado
}

func NuevaSesion(gw gateway.Cliente, usuario string) *Sesion {
	cache := NewCacheMapeos(gw)
	return &Sesion{
		ID:        uuid.New(),
		Usuario:   usuario,
		CreadaEn:  time.Now(),
		gw:        gw,
		cache:     cache,
		resolutor: NewResolutor(cache),
		seleccion: NuevaSeleccion(usuario),
	}
}

// Resolver refreshes the deficit lines from the backend and rebuilds the
// resolved demand. The mapping cache is emptied first so a new pass never
// sees mappings from a previous one.
func (s *Sesion) Resolver(ctx context.Context) ([]LineaResuelta, error) {
	faltantes, err := s.gw.Faltantes(ctx)
	if err != nil {
		return nil, fmt.Errorf("no se pudieron obtener los faltantes: %w", err)
	}

	s.cache.Limpiar()
	lineas := s.resolutor.Resolver(ctx, faltantes)

	s.mu.Lock()
	s.lineas = lineas
	s.mu.Unlock()
	return lineas, nil
}

// Lineas returns the last resolution pass (snapshot).
func (s *Sesion) Lineas() []LineaResuelta {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineaResuelta, len(s.lineas))
	copy(out, s.lineas)
	return out
}

// Seleccion exposes the session's selection state.
func (s *Sesion) Seleccion() *Seleccion { return s.seleccion }

// Cache exposes the session-scoped mapping cache (for invalidation when a
// suggestion mapping changes mid-session).
func (s *Sesion) Cache() *CacheMapeos { return s.cache }

// Seleccionar marks a resolved line for inclusion, seeding the selection
// with the resolver's default quantity. Only resolved targets are
// selectable — pack (parent) articles never appear as targets.
func (s *Sesion) Seleccionar(numero string) error {
	s.mu.Lock()
	var linea *LineaResuelta
	for i := range s.lineas {
		if s.lineas[i].ArticuloNumero == numero {
			linea = &s.lineas[i]
			break
		}
	}
	s.mu.Unlock()

	if linea == nil {
		return fmt.Errorf("el articulo %s no pertenece a la resolución vigente", numero)
	}
	s.seleccion.Seleccionar(linea.ArticuloNumero, linea.Descripcion, linea.Cantidad)
	return nil
}

// EstadoArmado reports the assembly state machine's current state.
func (s *Sesion) EstadoArmado() EstadoArmado {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.estadoArmado
}

// iniciarArmado validates readiness and moves the machine to
// CREANDO_CARRO, returning the snapshot of lines to add. On rejection the
// machine stays where it was.
func (s *Sesion) iniciarArmado() ([]EntradaSeleccion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.estadoArmado {
	case ArmadoCreandoCarro, ArmadoAgregandoItems:
		return nil, fmt.Errorf("ya hay un armado en curso para la sesión %s", s.ID)
	}

	if !s.seleccion.Listo() {
		return nil, fmt.Errorf("no hay articulos seleccionados con cantidad positiva")
	}

	todas := s.seleccion.Lista()
	items := make([]EntradaSeleccion, 0, len(todas))
	for _, e := range todas {
		if !e.Seleccionado {
			continue
		}
		if e.Cantidad <= 0 {
			return nil, fmt.Errorf("el articulo %s tiene cantidad inválida (%v)", e.ArticuloNumero, e.Cantidad)
		}
		items = append(items, e)
	}

	s.estadoArmado = ArmadoCreandoCarro
	return items, nil
}

// transicionArmado advances the machine; limpiar clears the selection
// (only on a completed assembly — a failed cart creation keeps it so the
// user retries without re-selecting).
func (s *Sesion) transicionArmado(estado EstadoArmado, limpiar bool) {
	s.mu.Lock()
	s.estadoArmado = estado
	s.mu.Unlock()
	if limpiar {
		s.seleccion.Limpiar()
	}
}
