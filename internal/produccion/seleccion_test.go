package produccion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeleccionCantidadesInvalidas(t *testing.T) {
	s := NuevaSeleccion("maria")
	s.Seleccionar("A", "articulo A", 5)

	assert.False(t, s.FijarCantidad("A", math.NaN()))
	assert.False(t, s.FijarCantidad("A", math.Inf(1)))
	assert.False(t, s.FijarCantidad("A", -3))
	assert.False(t, s.FijarCantidad("ZZZ", 2))

	lista := s.Lista()
	require.Len(t, lista, 1)
	assert.Equal(t, 5.0, lista[0].Cantidad)

	assert.True(t, s.FijarCantidad("A", 8))
	assert.Equal(t, 8.0, s.Lista()[0].Cantidad)
}

func TestSeleccionarConservaCantidadEditada(t *testing.T) {
	s := NuevaSeleccion("maria")
	s.Seleccionar("A", "articulo A", 5)
	require.True(t, s.FijarCantidad("A", 9))

	// Re-selecting must not reset the edited quantity.
	s.Seleccionar("A", "articulo A", 5)
	assert.Equal(t, 9.0, s.Lista()[0].Cantidad)

	// Removing and selecting again restarts from the default.
	s.Quitar("A")
	assert.Empty(t, s.Lista())
	s.Seleccionar("A", "articulo A", 5)
	assert.Equal(t, 5.0, s.Lista()[0].Cantidad)
}

func TestSeleccionListo(t *testing.T) {
	sinUsuario := NuevaSeleccion("")
	sinUsuario.Seleccionar("A", "articulo A", 5)
	assert.False(t, sinUsuario.Listo())

	s := NuevaSeleccion("maria")
	assert.False(t, s.Listo())

	s.Seleccionar("A", "articulo A", 5)
	assert.True(t, s.Listo())

	require.True(t, s.FijarCantidad("A", 0))
	assert.False(t, s.Listo())
}

func TestSeleccionLimpiar(t *testing.T) {
	s := NuevaSeleccion("maria")
	s.Seleccionar("A", "articulo A", 5)
	s.Seleccionar("B", "articulo B", 2)
	s.Limpiar()
	assert.Empty(t, s.Lista())
	assert.False(t, s.Listo())
}
