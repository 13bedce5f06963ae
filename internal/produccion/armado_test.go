package produccion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sesionConSeleccion(t *testing.T, stub *clienteStub, articulos ...string) *Sesion {
	t.Helper()
	for _, a := range articulos {
		stub.faltantes = append(stub.faltantes, faltante(a, 5, 0))
	}
	ses := NuevaSesion(stub, "maria")
	_, err := ses.Resolver(context.Background())
	require.NoError(t, err)
	for _, a := range articulos {
		require.NoError(t, ses.Seleccionar(a))
	}
	return ses
}

func TestArmarSinSeleccionRechaza(t *testing.T) {
	stub := nuevoStub()
	ses := NuevaSesion(stub, "maria")

	_, err := NewArmador(stub, 1).Armar(context.Background(), ses)
	require.Error(t, err)
	assert.Equal(t, 0, stub.carrosCreados)
	assert.Equal(t, ArmadoInactivo, ses.EstadoArmado())
}

func TestArmarFallaCreacionConservaSeleccion(t *testing.T) {
	stub := nuevoStub()
	ses := sesionConSeleccion(t, stub, "A", "B")
	stub.fallaCrearCarro = true

	_, err := NewArmador(stub, 1).Armar(context.Background(), ses)
	require.Error(t, err)
	assert.Equal(t, ArmadoFalloCreacion, ses.EstadoArmado())

	// The selection survives so the user retries without redoing it.
	assert.Len(t, ses.Seleccion().Lista(), 2)
	assert.Empty(t, stub.itemsAgregados)

	// And the retry works once the backend recovers.
	stub.fallaCrearCarro = false
	res, err := NewArmador(stub, 1).Armar(context.Background(), ses)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Agregados)
}

func TestArmarErroresPorItemNoDetienenElResto(t *testing.T) {
	stub := nuevoStub()
	ses := sesionConSeleccion(t, stub, "A", "B", "C")
	stub.fallaAgregarItems["B"] = "stock insuficiente"

	res, err := NewArmador(stub, 1).Armar(context.Background(), ses)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Agregados)
	assert.Equal(t, map[string]string{"B": "stock insuficiente"}, res.ErroresItems)
	assert.Equal(t, ArmadoCompleto, ses.EstadoArmado())

	// Completion clears the selection even with partial failures.
	assert.Empty(t, ses.Seleccion().Lista())

	agregados := stub.itemsAgregados[res.CarroID]
	require.Len(t, agregados, 2)
	assert.Equal(t, "maria", agregados[0].Usuario)
}

func TestArmarCantidadEditadaViajaAlCarro(t *testing.T) {
	stub := nuevoStub()
	ses := sesionConSeleccion(t, stub, "A")
	require.True(t, ses.Seleccion().FijarCantidad("A", 11))

	res, err := NewArmador(stub, 1).Armar(context.Background(), ses)
	require.NoError(t, err)

	agregados := stub.itemsAgregados[res.CarroID]
	require.Len(t, agregados, 1)
	assert.Equal(t, 11.0, agregados[0].Cantidad)
}

func TestArmarCancelacionNoIntentaRestantes(t *testing.T) {
	stub := nuevoStub()
	ses := sesionConSeleccion(t, stub, "A", "B", "C")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The cart gets created before the per-item cancel check, so the
	// assembly still completes — with every item recorded as not attempted
	// and nothing rolled back.
	res, err := NewArmador(stub, 1).Armar(ctx, ses)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Agregados)
	assert.Len(t, res.ErroresItems, 3)
	for _, msg := range res.ErroresItems {
		assert.Contains(t, msg, "no intentado")
	}
}

func TestArmarEnPoolAtribuyeErroresPorArticulo(t *testing.T) {
	stub := nuevoStub()
	ses := sesionConSeleccion(t, stub, "A", "B", "C", "D")
	stub.fallaAgregarItems["C"] = "stock insuficiente"

	res, err := NewArmador(stub, 3).Armar(context.Background(), ses)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Agregados)
	assert.Equal(t, map[string]string{"C": "stock insuficiente"}, res.ErroresItems)
}

func TestArmarRechazaArmadoEnCurso(t *testing.T) {
	stub := nuevoStub()
	ses := sesionConSeleccion(t, stub, "A")

	items, err := ses.iniciarArmado()
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = NewArmador(stub, 1).Armar(context.Background(), ses)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "en curso")
}
