package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirTraspasoRequest struct {
	CarroID    int64   `json:"carro_id"    validate:"required,gt=0"`
	ObjetivoID int64   `json:"objetivo_id" validate:"required,gt=0"`
	Deficit    float64 `json:"deficit"     validate:"min=0"`
	Usuario    string  `json:"usuario"     validate:"required,min=1,max=60"`
}

type FiltroCandidatosRequest struct {
	Filtro string `form:"filtro"`
}

type TraspasoRequest struct {
	OrigenID int64   `json:"origen_id" validate:"required,gt=0"`
	Cantidad float64 `json:"cantidad"  validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TraspasoSesionResponse struct {
	ID              string  `json:"id"`
	CarroID         int64   `json:"carro_id"`
	ObjetivoID      int64   `json:"objetivo_id"`
	ObjetivoNombre  string  `json:"objetivo_nombre"`
	Unidad          string  `json:"unidad"`
	DeficitRestante float64 `json:"deficit_restante"`
}
