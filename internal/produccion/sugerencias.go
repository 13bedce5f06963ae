package produccion

import (
	"context"
	"errors"
	"fmt"

	"lamda/internal/gateway"

	"github.com/rs/zerolog/log"
)

// Sugerencias administers the origin-to-substitute mappings. Writes go
// straight to the backend; every live session's cached entry for the
// touched origin is invalidated so the next resolution pass sees the
// change.
type Sugerencias struct {
	gw       gateway.Cliente
	registro *Registro
}

func NuevasSugerencias(gw gateway.Cliente, registro *Registro) *Sugerencias {
	return &Sugerencias{gw: gw, registro: registro}
}

// Guardar creates or replaces the suggestion for an origin article.
func (s *Sugerencias) Guardar(ctx context.Context, origen, sustituto string) error {
	if origen == "" || sustituto == "" {
		return fmt.Errorf("origen y sustituto son obligatorios")
	}
	if origen == sustituto {
		return fmt.Errorf("un articulo no puede ser su propio sustituto: %s", origen)
	}

	if err := s.gw.GuardarSugerencia(ctx, origen, sustituto); err != nil {
		return fmt.Errorf("no se pudo guardar la sugerencia de %s: %w", origen, err)
	}
	s.registro.InvalidarSugerencia(origen)
	log.Info().Str("origen", origen).Str("sustituto", sustituto).Msg("sugerencia guardada")
	return nil
}

// Eliminar removes the suggestion for an origin article. Deleting a
// mapping that does not exist is not an error.
func (s *Sugerencias) Eliminar(ctx context.Context, origen string) error {
	err := s.gw.EliminarSugerencia(ctx, origen)
	if err != nil && !errors.Is(err, gateway.ErrNoEncontrado) {
		return fmt.Errorf("no se pudo eliminar la sugerencia de %s: %w", origen, err)
	}
	s.registro.InvalidarSugerencia(origen)
	log.Info().Str("origen", origen).Msg("sugerencia eliminada")
	return nil
}
