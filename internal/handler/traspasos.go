package handler

import (
	"errors"
	"net/http"

	"lamda/internal/apierror"
	"lamda/internal/dto"
	"lamda/internal/gateway"
	"lamda/internal/infra"
	"lamda/internal/produccion"

	"github.com/gin-gonic/gin"
)

// TraspasoHandler exposes the ingredient-transfer flow: open a session
// against a cart ingredient, browse candidates, validate and confirm
// transfers until the deficit is covered.
type TraspasoHandler struct {
	registro *produccion.Registro
	gw       gateway.Cliente
}

func NewTraspasoHandler(registro *produccion.Registro, gw gateway.Cliente) *TraspasoHandler {
	return &TraspasoHandler{registro: registro, gw: gw}
}

func (h *TraspasoHandler) Abrir(c *gin.Context) {
	var req dto.AbrirTraspasoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	st, err := produccion.NuevaSesionTraspaso(c.Request.Context(), h.gw, req.CarroID, req.ObjetivoID, req.Deficit, req.Usuario)
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, apierror.New("El backend no está disponible, reintente en unos segundos"))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}

	h.registro.RegistrarTraspaso(st)
	c.JSON(http.StatusCreated, traspasoResponse(st))
}

func (h *TraspasoHandler) Cerrar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.registro.CerrarTraspaso(id)
	c.Status(http.StatusNoContent)
}

// Candidatos lists valid source ingredients, applying (and remembering)
// the optional name filter.
func (h *TraspasoHandler) Candidatos(c *gin.Context) {
	st, ok := h.traspaso(c)
	if !ok {
		return
	}
	// The filter only changes when the query param is present, so plain
	// refreshes keep the one already set.
	if c.Request.URL.Query().Has("filtro") {
		var req dto.FiltroCandidatosRequest
		if err := c.ShouldBindQuery(&req); err == nil {
			st.FijarFiltro(req.Filtro)
		}
	}
	c.JSON(http.StatusOK, st.Candidatos())
}

// Validar dry-runs a transfer: picks the source and checks the quantity
// without touching the backend.
func (h *TraspasoHandler) Validar(c *gin.Context) {
	st, ok := h.traspaso(c)
	if !ok {
		return
	}
	var req dto.TraspasoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := st.SeleccionarOrigen(req.OrigenID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, st.Validar(req.Cantidad))
}

// Confirmar executes the transfer. The session stays open afterwards so
// the user can chain further transfers against the updated stock.
func (h *TraspasoHandler) Confirmar(c *gin.Context) {
	st, ok := h.traspaso(c)
	if !ok {
		return
	}
	var req dto.TraspasoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := st.SeleccionarOrigen(req.OrigenID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}

	res, err := st.Confirmar(c.Request.Context(), req.Cantidad)
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, apierror.New("El backend no está disponible, reintente en unos segundos"))
			return
		}
		if !res.Valida && res.Error != "" && !errors.Is(err, gateway.ErrNoEncontrado) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(res.Error))
			return
		}
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resultado": res,
		"sesion":    traspasoResponse(st),
	})
}

func (h *TraspasoHandler) traspaso(c *gin.Context) (*produccion.SesionTraspaso, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	st, err := h.registro.Traspaso(id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return nil, false
	}
	return st, true
}

func traspasoResponse(st *produccion.SesionTraspaso) dto.TraspasoSesionResponse {
	obj := st.Objetivo()
	return dto.TraspasoSesionResponse{
		ID:              st.ID.String(),
		CarroID:         st.CarroID,
		ObjetivoID:      obj.ID,
		ObjetivoNombre:  obj.Nombre,
		Unidad:          obj.Unidad,
		DeficitRestante: st.DeficitRestante(),
	}
}
