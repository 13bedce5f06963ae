package produccion

import (
	"context"
	"sort"

	"lamda/internal/model"

	"github.com/rs/zerolog/log"
)

// TipoLinea classifies a resolved demand line.
type TipoLinea string

const (
	LineaSimple         TipoLinea = "simple"
	LineaComponentePack TipoLinea = "componente_pack"
	LineaSugerencia     TipoLinea = "sugerencia"
)

// LineaResuelta is one unit of derived demand, ready for render and
// selection. Origenes carries provenance: the deficit article(s) this
// demand came from — exactly one for simple/pack lines, one or more for
// consolidated suggestion lines.
type LineaResuelta struct {
	ArticuloNumero string    `json:"articulo_numero"`
	Descripcion    string    `json:"descripcion"`
	Cantidad       float64   `json:"cantidad"`
	Tipo           TipoLinea `json:"tipo"`
	Origenes       []string  `json:"origenes"`
	// PackNumero names the compound article a pack-component line came
	// from. The pack itself is never selectable, only shown as context.
	PackNumero string `json:"pack_numero,omitempty"`
	// ConversionExacta is false when any unit-consumption lookup for a
	// suggestion line fell back to the first recipe ingredient instead of
	// an exact name match — surfaced so the UI can flag the approximation.
	ConversionExacta bool `json:"conversion_exacta,omitempty"`
}

// Resolutor turns deficit lines into resolved demand. Lookup failures
// degrade instead of aborting the batch: an article whose pack lookup
// failed is still emitted as a simple line the user can order, and a
// failed suggestion/recipe lookup only suppresses the suggestion line.
type Resolutor struct {
	cache *CacheMapeos
}

func NewResolutor(cache *CacheMapeos) *Resolutor {
	return &Resolutor{cache: cache}
}

// Resolver produces the full set of resolved demand lines for one pass:
// direct lines (simple or pack component) in deficit order, followed by
// suggestion lines consolidated per substitute and sorted by article code
// so the output is independent of input order.
func (r *Resolutor) Resolver(ctx context.Context, faltantes []model.Faltante) []LineaResuelta {
	directas := make([]LineaResuelta, 0, len(faltantes))
	sugeridas := make(map[string]*LineaResuelta)

	for _, f := range faltantes {
		deficit := f.Deficit()
		if deficit <= 0 {
			continue
		}

		directa := r.resolverDirecta(ctx, f, deficit)
		directas = append(directas, directa)

		sug := r.resolverSugerencia(ctx, f, directa)
		if sug == nil {
			continue
		}
		if previa, ok := sugeridas[sug.ArticuloNumero]; ok {
			previa.Cantidad += sug.Cantidad
			previa.Origenes = append(previa.Origenes, sug.Origenes...)
			previa.ConversionExacta = previa.ConversionExacta && sug.ConversionExacta
		} else {
			sugeridas[sug.ArticuloNumero] = sug
		}
	}

	objetivos := make([]string, 0, len(sugeridas))
	for numero := range sugeridas {
		objetivos = append(objetivos, numero)
	}
	sort.Strings(objetivos)

	lineas := directas
	for _, numero := range objetivos {
		linea := sugeridas[numero]
		sort.Strings(linea.Origenes)
		lineas = append(lineas, *linea)
	}
	return lineas
}

// resolverDirecta expands one deficit into its orderable form: the article
// itself, or its pack component with the demand multiplied by the unit
// ratio.
func (r *Resolutor) resolverDirecta(ctx context.Context, f model.Faltante, deficit float64) LineaResuelta {
	vinculo, err := r.cache.VinculoPack(ctx, f.Articulo.Numero)
	if err != nil {
		// Fail open: under-resolving is recoverable by the user, a
		// silently dropped article is not.
		log.Warn().
			Str("articulo", f.Articulo.Numero).
			Err(err).
			Msg("lookup de vinculo pack degradado, se resuelve como articulo simple")
		vinculo = nil
	}

	if vinculo == nil {
		return LineaResuelta{
			ArticuloNumero: f.Articulo.Numero,
			Descripcion:    f.Articulo.Descripcion,
			Cantidad:       deficit,
			Tipo:           LineaSimple,
			Origenes:       []string{f.Articulo.Numero},
		}
	}
	return LineaResuelta{
		ArticuloNumero: vinculo.ComponenteNumero,
		Descripcion:    vinculo.Descripcion,
		Cantidad:       deficit * vinculo.UnidadesPorPack,
		Tipo:           LineaComponentePack,
		Origenes:       []string{f.Articulo.Numero},
		PackNumero:     f.Articulo.Numero,
	}
}

// resolverSugerencia emits the substitute demand for a deficit whose
// origin has a configured suggestion, converting the (already expanded)
// deficit into substitute units. Returns nil when no suggestion is
// configured or a lookup degraded.
func (r *Resolutor) resolverSugerencia(ctx context.Context, f model.Faltante, directa LineaResuelta) *LineaResuelta {
	sug, err := r.cache.Sugerencia(ctx, f.Articulo.Numero)
	if err != nil {
		log.Warn().
			Str("articulo", f.Articulo.Numero).
			Err(err).
			Msg("lookup de sugerencia degradado, se omite la linea sugerida")
		return nil
	}
	if sug == nil {
		return nil
	}

	// For packs the component — not the pack — is the origin of the unit
	// consumption lookup, and the expanded quantity is the one converted.
	// Both are already on the direct line.
	factor, exacta, err := r.factor(ctx, directa.ArticuloNumero, sug.SustitutoNumero)
	if err != nil {
		log.Warn().
			Str("origen", directa.ArticuloNumero).
			Str("sustituto", sug.SustitutoNumero).
			Err(err).
			Msg("calculo de factor de conversion degradado, se omite la linea sugerida")
		return nil
	}

	return &LineaResuelta{
		ArticuloNumero:   sug.SustitutoNumero,
		Cantidad:         directa.Cantidad * factor,
		Tipo:             LineaSugerencia,
		Origenes:         []string{f.Articulo.Numero},
		ConversionExacta: exacta,
	}
}

// factor computes the dimensionless conversion between origin and
// substitute units: consumoUnitario(origen)/consumoUnitario(sustituto).
// The second return is false when any side used the first-ingredient
// fallback instead of an exact name match.
func (r *Resolutor) factor(ctx context.Context, origen, sustituto string) (float64, bool, error) {
	consumoOrigen, exactaOrigen, err := r.consumoUnitario(ctx, origen, sustituto)
	if err != nil {
		return 0, false, err
	}
	consumoSustituto, exactaSustituto, err := r.consumoUnitario(ctx, sustituto, origen)
	if err != nil {
		return 0, false, err
	}

	if consumoSustituto == 0 {
		log.Warn().
			Str("origen", origen).
			Str("sustituto", sustituto).
			Msg("consumo unitario del sustituto es cero, se usa identidad")
		consumoSustituto = 1
	}
	return consumoOrigen / consumoSustituto, exactaOrigen && exactaSustituto, nil
}

// consumoUnitario reads articulo's recipe and returns the quantity of the
// ingredient named otro. No recipe (or an empty one) means identity 1.
// When the recipe has no exact match the first ingredient's quantity is
// used — a documented approximation, logged every time it fires.
func (r *Resolutor) consumoUnitario(ctx context.Context, articulo, otro string) (float64, bool, error) {
	receta, err := r.cache.Receta(ctx, articulo)
	if err != nil {
		return 0, false, err
	}
	if receta == nil || len(receta.Ingredientes) == 0 {
		return 1, true, nil
	}

	cantidad, exacta := receta.ConsumoDe(otro)
	if !exacta {
		log.Warn().
			Str("articulo", articulo).
			Str("ingrediente_buscado", otro).
			Str("ingrediente_usado", receta.Ingredientes[0].Nombre).
			Msg("receta sin coincidencia exacta, se usa el primer ingrediente")
	}
	return cantidad, exacta, nil
}
