package produccion

import (
	"context"
	"testing"

	"lamda/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolver(t *testing.T, stub *clienteStub, faltantes ...model.Faltante) []LineaResuelta {
	t.Helper()
	r := NewResolutor(NewCacheMapeos(stub))
	return r.Resolver(context.Background(), faltantes)
}

func TestResolverOmiteDeficitCero(t *testing.T) {
	stub := nuevoStub()
	lineas := resolver(t, stub,
		faltante("A", 5, 5),
		faltante("B", 3, 8),
		faltante("C", 10, 4),
	)

	require.Len(t, lineas, 1)
	assert.Equal(t, "C", lineas[0].ArticuloNumero)
	assert.Equal(t, 6.0, lineas[0].Cantidad)
	assert.Equal(t, LineaSimple, lineas[0].Tipo)
}

func TestResolverExpandePack(t *testing.T) {
	stub := nuevoStub()
	stub.conVinculo("PACK1", "ING7", 4)

	lineas := resolver(t, stub, faltante("PACK1", 3, 0))

	require.Len(t, lineas, 1)
	l := lineas[0]
	assert.Equal(t, "ING7", l.ArticuloNumero)
	assert.Equal(t, 12.0, l.Cantidad)
	assert.Equal(t, LineaComponentePack, l.Tipo)
	assert.Equal(t, "PACK1", l.PackNumero)
	assert.Equal(t, []string{"PACK1"}, l.Origenes)
}

func TestResolverSugerenciaConFactorDeReceta(t *testing.T) {
	stub := nuevoStub()
	stub.conSugerencia("A", "S")
	stub.conReceta("A", ingrediente("S", 2))
	stub.conReceta("S", ingrediente("A", 1))

	lineas := resolver(t, stub, faltante("A", 10, 0))

	require.Len(t, lineas, 2)
	assert.Equal(t, "A", lineas[0].ArticuloNumero)
	assert.Equal(t, 10.0, lineas[0].Cantidad)

	sug := lineas[1]
	assert.Equal(t, "S", sug.ArticuloNumero)
	assert.Equal(t, LineaSugerencia, sug.Tipo)
	// consumoUnitario(A)=2, consumoUnitario(S)=1 → 10 * 2/1
	assert.Equal(t, 20.0, sug.Cantidad)
	assert.True(t, sug.ConversionExacta)
}

func TestResolverSugerenciaSinRecetaUsaIdentidad(t *testing.T) {
	stub := nuevoStub()
	stub.conSugerencia("A", "S")

	lineas := resolver(t, stub, faltante("A", 7, 0))

	require.Len(t, lineas, 2)
	assert.Equal(t, 7.0, lineas[1].Cantidad)
	assert.True(t, lineas[1].ConversionExacta)
}

func TestResolverSugerenciaFallbackPrimerIngrediente(t *testing.T) {
	stub := nuevoStub()
	stub.conSugerencia("A", "S")
	stub.conReceta("A", ingrediente("harina", 3), ingrediente("S", 5))

	lineas := resolver(t, stub, faltante("A", 2, 0))

	require.Len(t, lineas, 2)
	sug := lineas[1]
	// "S" matches exactly in A's recipe; the fallback fires on S's missing
	// recipe which resolves to identity — still exact by definition.
	assert.Equal(t, 10.0, sug.Cantidad)
	assert.True(t, sug.ConversionExacta)

	// Now a recipe where the searched ingredient is absent: the first
	// ingredient's quantity is used and the line is flagged approximate.
	stub2 := nuevoStub()
	stub2.conSugerencia("A", "S")
	stub2.conReceta("A", ingrediente("harina", 3))
	stub2.conReceta("S", ingrediente("azucar", 2))

	lineas = resolver(t, stub2, faltante("A", 4, 0))
	require.Len(t, lineas, 2)
	assert.Equal(t, 6.0, lineas[1].Cantidad) // 4 * 3/2
	assert.False(t, lineas[1].ConversionExacta)
}

func TestResolverSugerenciaDePackConvierteCantidadExpandida(t *testing.T) {
	stub := nuevoStub()
	stub.conVinculo("PACK1", "ING7", 4)
	stub.conSugerencia("PACK1", "S")
	stub.conReceta("ING7", ingrediente("S", 2))
	stub.conReceta("S", ingrediente("ING7", 1))

	lineas := resolver(t, stub, faltante("PACK1", 3, 0))

	require.Len(t, lineas, 2)
	// The component line carries the expanded 12; the suggestion converts
	// that, not the raw pack deficit.
	assert.Equal(t, 12.0, lineas[0].Cantidad)
	assert.Equal(t, 24.0, lineas[1].Cantidad)
}

func TestResolverConsolidaSugerenciasPorSustituto(t *testing.T) {
	stub := nuevoStub()
	stub.conSugerencia("A", "S")
	stub.conSugerencia("B", "S")
	stub.conReceta("A", ingrediente("S", 2))
	stub.conReceta("B", ingrediente("S", 1))

	fA := faltante("A", 10, 0)
	fB := faltante("B", 5, 0)

	lineas := resolver(t, stub, fA, fB)
	require.Len(t, lineas, 3)
	sug := lineas[2]
	assert.Equal(t, "S", sug.ArticuloNumero)
	assert.Equal(t, 25.0, sug.Cantidad) // 10*2 + 5*1
	assert.Equal(t, []string{"A", "B"}, sug.Origenes)

	// Input order must not change the consolidated result.
	stub2 := nuevoStub()
	stub2.conSugerencia("A", "S")
	stub2.conSugerencia("B", "S")
	stub2.conReceta("A", ingrediente("S", 2))
	stub2.conReceta("B", ingrediente("S", 1))

	invertidas := resolver(t, stub2, fB, fA)
	require.Len(t, invertidas, 3)
	assert.Equal(t, sug.Cantidad, invertidas[2].Cantidad)
	assert.Equal(t, sug.Origenes, invertidas[2].Origenes)
}

func TestFactorSimetrico(t *testing.T) {
	stub := nuevoStub()
	stub.conReceta("A", ingrediente("S", 2))
	stub.conReceta("S", ingrediente("A", 0.5))
	r := NewResolutor(NewCacheMapeos(stub))
	ctx := context.Background()

	ida, exacta, err := r.factor(ctx, "A", "S")
	require.NoError(t, err)
	assert.True(t, exacta)

	vuelta, _, err := r.factor(ctx, "S", "A")
	require.NoError(t, err)

	// With deliberately symmetric recipes the round trip is the identity.
	assert.InDelta(t, 1.0, ida*vuelta, 1e-9)

	// With one recipe missing, the factor is the present side's unit
	// consumption alone.
	stub2 := nuevoStub()
	stub2.conReceta("A", ingrediente("S", 2))
	r2 := NewResolutor(NewCacheMapeos(stub2))
	solo, _, err := r2.factor(ctx, "A", "S")
	require.NoError(t, err)
	assert.Equal(t, 2.0, solo)
}

func TestResolverFallaDeVinculoResuelveComoSimple(t *testing.T) {
	stub := nuevoStub()
	stub.fallaVinculo = true

	lineas := resolver(t, stub, faltante("A", 5, 0))

	require.Len(t, lineas, 1)
	assert.Equal(t, LineaSimple, lineas[0].Tipo)
	assert.Equal(t, 5.0, lineas[0].Cantidad)
}
