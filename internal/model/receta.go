package model

// IngredienteReceta is one entry of a recipe: how much of a named
// ingredient one reference unit of the owning article consumes.
type IngredienteReceta struct {
	Nombre   string  `json:"nombre"`
	Cantidad float64 `json:"cantidad"`
	Unidad   string  `json:"unidad"`
}

// Receta is the ordered ingredient list owned by an article. The engine
// only reads it to derive unit-consumption factors, never for costing.
type Receta struct {
	ArticuloNumero string              `json:"articulo_numero"`
	Ingredientes   []IngredienteReceta `json:"ingredientes"`
}

// ConsumoDe returns the quantity of the ingredient whose name matches
// nombre exactly. The second return reports whether the match was exact:
// when no entry matches, the first ingredient's quantity is returned as a
// documented approximation, and with an empty recipe the identity 1 applies.
func (r *Receta) ConsumoDe(nombre string) (float64, bool) {
	for _, ing := range r.Ingredientes {
		if ing.Nombre == nombre {
			return ing.Cantidad, true
		}
	}
	if len(r.Ingredientes) > 0 {
		return r.Ingredientes[0].Cantidad, false
	}
	return 1, false
}

// Sugerencia maps an origin article to its configured substitute.
// At most one substitute per origin.
type Sugerencia struct {
	OrigenNumero    string `json:"origen_numero"`
	SustitutoNumero string `json:"sustituto_numero"`
}
