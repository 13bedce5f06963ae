package produccion

import (
	"context"
	"sync"

	"lamda/internal/gateway"
	"lamda/internal/worker"

	"github.com/rs/zerolog/log"
)

// EstadoArmado is the cart-assembly state machine.
type EstadoArmado int

const (
	ArmadoInactivo EstadoArmado = iota
	ArmadoCreandoCarro
	ArmadoAgregandoItems
	ArmadoCompleto
	ArmadoFalloCreacion
)

func (e EstadoArmado) String() string {
	switch e {
	case ArmadoInactivo:
		return "inactivo"
	case ArmadoCreandoCarro:
		return "creando_carro"
	case ArmadoAgregandoItems:
		return "agregando_items"
	case ArmadoCompleto:
		return "completo"
	case ArmadoFalloCreacion:
		return "fallo_creacion"
	default:
		return "desconocido"
	}
}

// ResultadoArmado summarizes one assembly: the issued cart id, how many
// items landed, and the verbatim backend message for each one that did
// not. A cart with errors is still a valid cart — nothing is rolled back.
type ResultadoArmado struct {
	CarroID      int64             `json:"carro_id"`
	Agregados    int               `json:"agregados"`
	ErroresItems map[string]string `json:"errores_items"`
}

// Armador runs the two-phase assembly: create the cart, then add every
// selected line. Item adds run strictly one at a time by default, which
// keeps error attribution trivial and the backend uncontended; a bounded
// pool can be enabled per deployment, attribution preserved.
type Armador struct {
	gw           gateway.Cliente
	concurrencia int
}

func NewArmador(gw gateway.Cliente, concurrencia int) *Armador {
	if concurrencia < 1 {
		concurrencia = 1
	}
	return &Armador{gw: gw, concurrencia: concurrencia}
}

// Armar executes the assembly for a session.
//   - Not ready, or any selected quantity <= 0: rejected, machine stays put.
//   - Cart creation failure: FALLO_CREACION, error returned verbatim,
//     selection preserved for a retry.
//   - Item failures: recorded per article, never stop the remaining items.
//   - Completion clears the selection even when some items failed.
func (a *Armador) Armar(ctx context.Context, ses *Sesion) (*ResultadoArmado, error) {
	items, err := ses.iniciarArmado()
	if err != nil {
		return nil, err
	}

	carroID, err := a.gw.CrearCarro(ctx, ses.Usuario)
	if err != nil {
		ses.transicionArmado(ArmadoFalloCreacion, false)
		log.Error().Str("usuario", ses.Usuario).Err(err).Msg("fallo la creación del carro")
		return nil, err
	}

	ses.transicionArmado(ArmadoAgregandoItems, false)

	resultado := &ResultadoArmado{
		CarroID:      carroID,
		ErroresItems: make(map[string]string),
	}

	if a.concurrencia == 1 {
		a.agregarSecuencial(ctx, carroID, ses.Usuario, items, resultado)
	} else {
		a.agregarEnPool(ctx, carroID, ses.Usuario, items, resultado)
	}

	ses.transicionArmado(ArmadoCompleto, true)

	log.Info().
		Int64("carro_id", carroID).
		Int("agregados", resultado.Agregados).
		Int("con_error", len(resultado.ErroresItems)).
		Msg("armado de carro completado")
	return resultado, nil
}

func (a *Armador) agregarSecuencial(ctx context.Context, carroID int64, usuario string, items []EntradaSeleccion, resultado *ResultadoArmado) {
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			// Cancellation stops issuing new adds; already-added items
			// stay — the cart is never rolled back.
			for _, resto := range items[i:] {
				resultado.ErroresItems[resto.ArticuloNumero] = "no intentado: " + err.Error()
			}
			return
		}
		if err := a.agregarItem(ctx, carroID, usuario, it); err != nil {
			resultado.ErroresItems[it.ArticuloNumero] = err.Error()
			continue
		}
		resultado.Agregados++
	}
}

func (a *Armador) agregarEnPool(ctx context.Context, carroID int64, usuario string, items []EntradaSeleccion, resultado *ResultadoArmado) {
	pool := worker.NewPool(a.concurrencia)
	var mu sync.Mutex

	for _, it := range items {
		it := it
		pool.Go(func() {
			err := ctx.Err()
			if err == nil {
				err = a.agregarItem(ctx, carroID, usuario, it)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				resultado.ErroresItems[it.ArticuloNumero] = err.Error()
				return
			}
			resultado.Agregados++
		})
	}
	pool.Wait()
}

func (a *Armador) agregarItem(ctx context.Context, carroID int64, usuario string, it EntradaSeleccion) error {
	err := a.gw.AgregarItemCarro(ctx, carroID, gateway.ItemCarro{
		ArticuloNumero: it.ArticuloNumero,
		Descripcion:    it.Descripcion,
		Cantidad:       it.Cantidad,
		Usuario:        usuario,
	})
	if err != nil {
		log.Warn().
			Int64("carro_id", carroID).
			Str("articulo", it.ArticuloNumero).
			Err(err).
			Msg("no se pudo agregar el articulo al carro")
	}
	return err
}
