package produccion

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"lamda/internal/gateway"
	"lamda/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ResultadoValidacion is the outcome of checking a transfer before
// confirming it. A warning never blocks — over-covering a deficit is the
// user's call — but a hard error does.
type ResultadoValidacion struct {
	Valida        bool   `json:"valida"`
	Error         string `json:"error,omitempty"`
	Advertencia   string `json:"advertencia,omitempty"`
	SobreCubierto bool   `json:"sobre_cubierto,omitempty"`
}

// SesionTraspaso drives covering one cart ingredient's deficit from other
// ingredients of the same unit. Stock figures are a local working copy:
// each confirmed transfer decrements them in place so a chain of
// transfers against the same session stays consistent without re-reading
// the backend.
type SesionTraspaso struct {
	ID      uuid.UUID `json:"id"`
	CarroID int64     `json:"carro_id"`
	Usuario string    `json:"usuario"`

	gw gateway.Cliente

	mu              sync.Mutex
	objetivo        model.IngredienteStock
	deficitRestante float64
	ingredientes    []model.IngredienteStock
	filtro          string
	origenID        int64
}

// NuevaSesionTraspaso loads the cart's ingredient stock and anchors the
// session on the target ingredient whose deficit is being covered.
func NuevaSesionTraspaso(ctx context.Context, gw gateway.Cliente, carroID, objetivoID int64, deficit float64, usuario string) (*SesionTraspaso, error) {
	if deficit < 0 || math.IsNaN(deficit) || math.IsInf(deficit, 0) {
		return nil, fmt.Errorf("deficit inválido: %v", deficit)
	}

	ingredientes, err := gw.IngredientesConStock(ctx, carroID)
	if err != nil {
		return nil, fmt.Errorf("no se pudieron obtener los ingredientes del carro %d: %w", carroID, err)
	}

	s := &SesionTraspaso{
		ID:              uuid.New(),
		CarroID:         carroID,
		Usuario:         usuario,
		gw:              gw,
		deficitRestante: deficit,
		ingredientes:    ingredientes,
	}
	for _, ing := range ingredientes {
		if ing.ID == objetivoID {
			s.objetivo = ing
			return s, nil
		}
	}
	return nil, fmt.Errorf("el ingrediente %d no pertenece al carro %d", objetivoID, carroID)
}

// Objetivo returns the target ingredient.
func (s *SesionTraspaso) Objetivo() model.IngredienteStock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objetivo
}

// DeficitRestante reports how much of the target's deficit is still
// uncovered, floored at zero.
func (s *SesionTraspaso) DeficitRestante() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deficitRestante
}

// FijarFiltro sets the case-insensitive name filter applied by
// Candidatos. The filter survives refreshes and confirmed transfers.
func (s *SesionTraspaso) FijarFiltro(filtro string) {
	s.mu.Lock()
	s.filtro = strings.TrimSpace(filtro)
	s.mu.Unlock()
}

// Candidatos lists the source ingredients a transfer may draw from: same
// unit as the target, positive remaining stock, never the target itself.
// The active name filter narrows the list without touching it.
func (s *SesionTraspaso) Candidatos() []model.IngredienteStock {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtro := strings.ToLower(s.filtro)
	out := make([]model.IngredienteStock, 0, len(s.ingredientes))
	for _, ing := range s.ingredientes {
		if ing.ID == s.objetivo.ID || ing.Unidad != s.objetivo.Unidad || ing.StockDisponible <= 0 {
			continue
		}
		if filtro != "" && !strings.Contains(strings.ToLower(ing.Nombre), filtro) {
			continue
		}
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

// SeleccionarOrigen picks the source ingredient for the next transfer.
// The id must be a current candidate.
func (s *SesionTraspaso) SeleccionarOrigen(id int64) error {
	for _, c := range s.Candidatos() {
		if c.ID == id {
			s.mu.Lock()
			s.origenID = id
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("el ingrediente %d no es un origen válido para el traspaso", id)
}

// Validar checks a proposed quantity against the selected source. The
// source's stock is a hard ceiling; exceeding the remaining deficit only
// produces a warning.
func (s *SesionTraspaso) Validar(cantidad float64) ResultadoValidacion {
	s.mu.Lock()
	defer s.mu.Unlock()

	origen, ok := s.origenLocked()
	if !ok {
		return ResultadoValidacion{Error: "no hay un ingrediente de origen seleccionado"}
	}
	if math.IsNaN(cantidad) || math.IsInf(cantidad, 0) || cantidad <= 0 {
		return ResultadoValidacion{Error: fmt.Sprintf("la cantidad a traspasar debe ser positiva: %v", cantidad)}
	}
	if cantidad > origen.StockDisponible {
		return ResultadoValidacion{Error: fmt.Sprintf(
			"la cantidad %v supera el stock disponible de %s (%v)",
			cantidad, origen.Nombre, origen.StockDisponible,
		)}
	}

	res := ResultadoValidacion{Valida: true}
	if cantidad > s.deficitRestante {
		res.SobreCubierto = true
		res.Advertencia = fmt.Sprintf(
			"la cantidad %v supera el faltante restante (%v)",
			cantidad, s.deficitRestante,
		)
	}
	return res
}

// Confirmar executes the transfer against the backend. On failure the
// local state does not move, so the user can retry or pick another
// source. On success the source stock and the remaining deficit are
// decremented locally; an exhausted source drops out of the candidates.
func (s *SesionTraspaso) Confirmar(ctx context.Context, cantidad float64) (ResultadoValidacion, error) {
	if res := s.Validar(cantidad); !res.Valida {
		return res, fmt.Errorf("traspaso inválido: %s", res.Error)
	}

	s.mu.Lock()
	origen, _ := s.origenLocked()
	objetivoID := s.objetivo.ID
	s.mu.Unlock()

	err := s.gw.TransferirIngrediente(ctx, gateway.Transferencia{
		OrigenID:  origen.ID,
		DestinoID: objetivoID,
		Cantidad:  cantidad,
		CarroID:   s.CarroID,
		Usuario:   s.Usuario,
	})
	if err != nil {
		log.Error().
			Int64("carro_id", s.CarroID).
			Int64("origen_id", origen.ID).
			Int64("destino_id", objetivoID).
			Err(err).
			Msg("el backend rechazó el traspaso")
		return ResultadoValidacion{Error: err.Error()}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := ResultadoValidacion{Valida: true}
	for i := range s.ingredientes {
		ing := &s.ingredientes[i]
		switch ing.ID {
		case origen.ID:
			ing.StockDisponible -= cantidad
		case objetivoID:
			ing.StockDisponible += cantidad
			s.objetivo = *ing
		}
	}
	if cantidad >= s.deficitRestante {
		if cantidad > s.deficitRestante {
			res.SobreCubierto = true
		}
		s.deficitRestante = 0
	} else {
		s.deficitRestante -= cantidad
	}

	log.Info().
		Int64("carro_id", s.CarroID).
		Int64("origen_id", origen.ID).
		Int64("destino_id", objetivoID).
		Float64("cantidad", cantidad).
		Float64("faltante_restante", s.deficitRestante).
		Msg("traspaso confirmado")
	return res, nil
}

func (s *SesionTraspaso) origenLocked() (model.IngredienteStock, bool) {
	if s.origenID == 0 {
		return model.IngredienteStock{}, false
	}
	for _, ing := range s.ingredientes {
		if ing.ID == s.origenID && ing.StockDisponible > 0 {
			return ing, true
		}
	}
	return model.IngredienteStock{}, false
}
