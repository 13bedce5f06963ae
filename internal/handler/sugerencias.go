package handler

import (
	"errors"
	"net/http"

	"lamda/internal/apierror"
	"lamda/internal/dto"
	"lamda/internal/infra"
	"lamda/internal/produccion"

	"github.com/gin-gonic/gin"
)

// SugerenciaHandler administers the origin-to-substitute mappings.
type SugerenciaHandler struct {
	sugerencias *produccion.Sugerencias
}

func NewSugerenciaHandler(sugerencias *produccion.Sugerencias) *SugerenciaHandler {
	return &SugerenciaHandler{sugerencias: sugerencias}
}

// Guardar creates or replaces the suggestion for the origin article in
// the path.
func (h *SugerenciaHandler) Guardar(c *gin.Context) {
	var req dto.GuardarSugerenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.sugerencias.Guardar(c.Request.Context(), c.Param("articulo"), req.SustitutoNumero)
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, apierror.New("El backend no está disponible, reintente en unos segundos"))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar removes the suggestion for the origin article in the path.
func (h *SugerenciaHandler) Eliminar(c *gin.Context) {
	err := h.sugerencias.Eliminar(c.Request.Context(), c.Param("articulo"))
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, apierror.New("El backend no está disponible, reintente en unos segundos"))
			return
		}
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
