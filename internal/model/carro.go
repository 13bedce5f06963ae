package model

// Carro is the backend-persisted work order. The backend issues the ID on
// creation; the engine never models its internal structure beyond that.
type Carro struct {
	ID int64 `json:"id"`
}

// IngredienteStock is a fresh snapshot of one ingredient's available stock,
// fetched per substitution session and decremented locally after each
// confirmed transfer.
type IngredienteStock struct {
	ID              int64   `json:"id"`
	Nombre          string  `json:"nombre"`
	Unidad          string  `json:"unidad"`
	StockDisponible float64 `json:"stock_disponible"`
}
