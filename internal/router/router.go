package router

import (
	"time"

	"lamda/internal/config"
	"lamda/internal/gateway"
	"lamda/internal/handler"
	"lamda/internal/infra"
	"lamda/internal/middleware"
	"lamda/internal/produccion"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Registro/Armador ← Gateway ← Backend
func New(cfg *config.Config, gw gateway.Cliente, rdb *redis.Client, cb *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Engine core ──────────────────────────────────────────────────────────
	registro := produccion.NuevoRegistro(gw)
	armador := produccion.NewArmador(gw, cfg.ArmadoConcurrencia)
	sugerencias := produccion.NuevasSugerencias(gw, registro)

	// ── Handlers ─────────────────────────────────────────────────────────────
	produccionH := handler.NewProduccionHandler(registro, armador)
	traspasosH := handler.NewTraspasoHandler(registro, gw)
	sugerenciasH := handler.NewSugerenciaHandler(sugerencias)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(rdb, cb))

	v1 := r.Group("/v1")
	{
		sesiones := v1.Group("/produccion/sesiones")
		{
			sesiones.POST("", produccionH.AbrirSesion)
			sesiones.DELETE("/:id", produccionH.CerrarSesion)
			sesiones.POST("/:id/resolver", produccionH.Resolver)
			sesiones.GET("/:id/lineas", produccionH.Lineas)
			sesiones.GET("/:id/seleccion", produccionH.ListarSeleccion)
			sesiones.POST("/:id/seleccion", produccionH.Seleccionar)
			sesiones.DELETE("/:id/seleccion/:articulo", produccionH.QuitarSeleccion)
			sesiones.PATCH("/:id/seleccion/:articulo", produccionH.FijarCantidad)
			sesiones.POST("/:id/armar", produccionH.Armar)
		}

		sug := v1.Group("/sugerencias")
		{
			sug.PUT("/:articulo", sugerenciasH.Guardar)
			sug.DELETE("/:articulo", sugerenciasH.Eliminar)
		}

		traspasos := v1.Group("/traspasos")
		{
			traspasos.POST("", traspasosH.Abrir)
			traspasos.DELETE("/:id", traspasosH.Cerrar)
			traspasos.GET("/:id/candidatos", traspasosH.Candidatos)
			traspasos.POST("/:id/validar", traspasosH.Validar)
			traspasos.POST("/:id/confirmar", traspasosH.Confirmar)
		}
	}

	return r
}
