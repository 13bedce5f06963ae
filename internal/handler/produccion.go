package handler

import (
	"errors"
	"net/http"
	"time"

	"lamda/internal/apierror"
	"lamda/internal/dto"
	"lamda/internal/infra"
	"lamda/internal/produccion"

	"github.com/gin-gonic/gin"
)

// ProduccionHandler exposes the configuration sessions: open/close,
// resolution passes, selection edits and the cart assembly itself.
type ProduccionHandler struct {
	registro *produccion.Registro
	armador  *produccion.Armador
}

func NewProduccionHandler(registro *produccion.Registro, armador *produccion.Armador) *ProduccionHandler {
	return &ProduccionHandler{registro: registro, armador: armador}
}

func (h *ProduccionHandler) AbrirSesion(c *gin.Context) {
	var req dto.AbrirSesionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ses := h.registro.AbrirSesion(req.Usuario)
	c.JSON(http.StatusCreated, sesionResponse(ses))
}

func (h *ProduccionHandler) CerrarSesion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.registro.CerrarSesion(id)
	c.Status(http.StatusNoContent)
}

// Resolver runs a fresh resolution pass and returns the resolved lines.
func (h *ProduccionHandler) Resolver(c *gin.Context) {
	ses, ok := h.sesion(c)
	if !ok {
		return
	}
	lineas, err := ses.Resolver(c.Request.Context())
	if err != nil {
		h.errorBackend(c, err)
		return
	}
	c.JSON(http.StatusOK, lineas)
}

// Lineas returns the lines from the last resolution pass without
// re-resolving.
func (h *ProduccionHandler) Lineas(c *gin.Context) {
	ses, ok := h.sesion(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ses.Lineas())
}

func (h *ProduccionHandler) ListarSeleccion(c *gin.Context) {
	ses, ok := h.sesion(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ses.Seleccion().Lista())
}

func (h *ProduccionHandler) Seleccionar(c *gin.Context) {
	ses, ok := h.sesion(c)
	if !ok {
		return
	}
	var req dto.SeleccionarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := ses.Seleccionar(req.ArticuloNumero); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, ses.Seleccion().Lista())
}

func (h *ProduccionHandler) QuitarSeleccion(c *gin.Context) {
	ses, ok := h.sesion(c)
	if !ok {
		return
	}
	ses.Seleccion().Quitar(c.Param("articulo"))
	c.Status(http.StatusNoContent)
}

func (h *ProduccionHandler) FijarCantidad(c *gin.Context) {
	ses, ok := h.sesion(c)
	if !ok {
		return
	}
	var req dto.FijarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !ses.Seleccion().FijarCantidad(c.Param("articulo"), req.Cantidad) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Cantidad invalida o articulo no seleccionado"))
		return
	}
	c.JSON(http.StatusOK, ses.Seleccion().Lista())
}

// Armar assembles the cart from the current selection. A 201 with
// errores_items entries means the cart exists but some items did not
// land — the caller decides what to do with them.
func (h *ProduccionHandler) Armar(c *gin.Context) {
	ses, ok := h.sesion(c)
	if !ok {
		return
	}
	resultado, err := h.armador.Armar(c.Request.Context(), ses)
	if err != nil {
		// A cart-creation failure is a backend problem; anything else is
		// the session not being ready (nothing selected, armado already
		// in progress, invalid quantity).
		if ses.EstadoArmado() == produccion.ArmadoFalloCreacion {
			h.errorBackend(c, err)
			return
		}
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, dto.ArmadoResponse{
		CarroID:      resultado.CarroID,
		Agregados:    resultado.Agregados,
		ErroresItems: resultado.ErroresItems,
	})
}

func (h *ProduccionHandler) sesion(c *gin.Context) (*produccion.Sesion, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	ses, err := h.registro.Sesion(id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return nil, false
	}
	return ses, true
}

// errorBackend maps engine/backend failures to a response: an open
// breaker is a 503 the client should back off from, everything else a
// 502 with the message intact.
func (h *ProduccionHandler) errorBackend(c *gin.Context, err error) {
	if errors.Is(err, infra.ErrCircuitOpen) {
		c.JSON(http.StatusServiceUnavailable, apierror.New("El backend no está disponible, reintente en unos segundos"))
		return
	}
	c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
}

func sesionResponse(ses *produccion.Sesion) dto.SesionResponse {
	return dto.SesionResponse{
		ID:       ses.ID.String(),
		Usuario:  ses.Usuario,
		CreadaEn: ses.CreadaEn.Format(time.RFC3339),
		Estado:   ses.EstadoArmado().String(),
	}
}
