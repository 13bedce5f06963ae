package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirSesionRequest struct {
	Usuario string `json:"usuario" validate:"required,min=1,max=60"`
}

type SeleccionarRequest struct {
	ArticuloNumero string `json:"articulo_numero" validate:"required"`
}

type FijarCantidadRequest struct {
	Cantidad float64 `json:"cantidad" validate:"min=0"`
}

type GuardarSugerenciaRequest struct {
	SustitutoNumero string `json:"sustituto_numero" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionResponse struct {
	ID       string `json:"id"`
	Usuario  string `json:"usuario"`
	CreadaEn string `json:"creada_en"`
	Estado   string `json:"estado_armado"`
}

type ArmadoResponse struct {
	CarroID      int64             `json:"carro_id"`
	Agregados    int               `json:"agregados"`
	ErroresItems map[string]string `json:"errores_items"`
}
