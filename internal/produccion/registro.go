package produccion

import (
	"fmt"
	"sync"

	"lamda/internal/gateway"

	"github.com/google/uuid"
)

// Registro owns the live sessions, keyed by id. It is the process-wide
// root the HTTP layer hangs off, and the fan-out point for suggestion
// invalidation across every open session's cache.
type Registro struct {
	gw gateway.Cliente

	mu        sync.RWMutex
	sesiones  map[uuid.UUID]*Sesion
	traspasos map[uuid.UUID]*SesionTraspaso
}

func NuevoRegistro(gw gateway.Cliente) *Registro {
	return &Registro{
		gw:        gw,
		sesiones:  make(map[uuid.UUID]*Sesion),
		traspasos: make(map[uuid.UUID]*SesionTraspaso),
	}
}

// AbrirSesion creates and registers a configuration session for a
// consumer.
func (r *Registro) AbrirSesion(usuario string) *Sesion {
	ses := NuevaSesion(r.gw, usuario)
	r.mu.Lock()
	r.sesiones[ses.ID] = ses
	r.mu.Unlock()
	return ses
}

// Sesion looks up an open session by id.
func (r *Registro) Sesion(id uuid.UUID) (*Sesion, error) {
	r.mu.RLock()
	ses, ok := r.sesiones[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no existe la sesión %s", id)
	}
	return ses, nil
}

// CerrarSesion drops a session. Closing an unknown id is a no-op.
func (r *Registro) CerrarSesion(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sesiones, id)
	r.mu.Unlock()
}

// RegistrarTraspaso registers an already-built transfer session.
func (r *Registro) RegistrarTraspaso(st *SesionTraspaso) {
	r.mu.Lock()
	r.traspasos[st.ID] = st
	r.mu.Unlock()
}

// Traspaso looks up an open transfer session by id.
func (r *Registro) Traspaso(id uuid.UUID) (*SesionTraspaso, error) {
	r.mu.RLock()
	st, ok := r.traspasos[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no existe la sesión de traspaso %s", id)
	}
	return st, nil
}

// CerrarTraspaso drops a transfer session.
func (r *Registro) CerrarTraspaso(id uuid.UUID) {
	r.mu.Lock()
	delete(r.traspasos, id)
	r.mu.Unlock()
}

// InvalidarSugerencia evicts the cached suggestion for an origin article
// from every open session, so mid-session mapping changes take effect on
// the next resolution pass.
func (r *Registro) InvalidarSugerencia(origen string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ses := range r.sesiones {
		ses.Cache().InvalidarSugerencia(origen)
	}
}
