package model

// Articulo is the catalog identity used across the configuration engine.
// Numero is the primary alphanumeric code; CodigoBarras is a secondary
// identity some older articles are still keyed by.
type Articulo struct {
	Numero       string  `json:"numero"`
	CodigoBarras *string `json:"codigo_barras"`
	Descripcion  string  `json:"descripcion"`
}

// VinculoPack relates a compound ("pack") article to its single component.
// One pack unit consumes UnidadesPorPack component units.
// Read from the backend on demand; never mutated here.
type VinculoPack struct {
	ArticuloNumero   string  `json:"articulo_numero"`
	ComponenteNumero string  `json:"componente_numero"`
	Descripcion      string  `json:"descripcion"`
	UnidadesPorPack  float64 `json:"unidades_por_pack"`
}

// Faltante is a deficit line: demand owed against available stock for
// one article. Immutable once fetched; a refresh replaces the whole set.
type Faltante struct {
	Articulo           Articulo `json:"articulo"`
	CantidadAPedir     float64  `json:"cantidad_a_pedir"`
	CantidadDisponible float64  `json:"cantidad_disponible"`
}

// Deficit returns the shortfall, floored at zero.
func (f Faltante) Deficit() float64 {
	d := f.CantidadAPedir - f.CantidadDisponible
	if d < 0 {
		return 0
	}
	return d
}
