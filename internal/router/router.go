package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/config"
	"github.com/owaldom/mangopos-app-web-sub000/internal/handler"
	"github.com/owaldom/mangopos-app-web-sub000/internal/middleware"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
	"github.com/owaldom/mangopos-app-web-sub000/internal/service"
	"github.com/owaldom/mangopos-app-web-sub000/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	deudaRepo := repository.NewDeudaRepository(db)
	tasaRepo := repository.NewTasaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	tasaSvc := service.NewTasaService(tasaRepo, rdb, cfg)
	cajaSvc := service.NewCajaService(cajaRepo, tasaSvc, dispatcher, cfg)
	ventaSvc := service.NewVentaService(ventaRepo, cajaSvc, cajaRepo, productoRepo, clienteRepo, deudaRepo, dispatcher, cfg)
	compraSvc := service.NewCompraService(compraRepo, cajaSvc, cajaRepo, productoRepo, deudaRepo, cfg)
	deudaSvc := service.NewDeudaService(deudaRepo, cajaSvc, cajaRepo, clienteRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, tasaSvc, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	deudasH := handler.NewDeudasHandler(deudaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	clientesH := handler.NewClientesHandler(clienteRepo)
	tasaH := handler.NewTasaHandler(tasaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ListarVentas)
		v1.GET("/ventas/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ObtenerVenta)
		v1.DELETE("/ventas/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.AnularVenta)

		compras := v1.Group("/compras", middleware.RequireRole("supervisor", "administrador"))
		{
			compras.POST("", comprasH.RegistrarCompra)
			compras.GET("/:id", comprasH.ObtenerCompra)
		}

		deudas := v1.Group("/deudas", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			deudas.GET("", deudasH.Listar)
			deudas.POST("/:id/abonar", deudasH.Abonar)
		}

		v1.GET("/productos", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.ObtenerPorID)
		// Write operations — administrador only
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.POST("/ajuste-masivo", productosH.AjusteMasivo)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.GET("/cedula/:cedula", clientesH.BuscarPorCedula)
		}

		caja := v1.Group("/caja", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/movimiento", cajaH.RegistrarMovimiento)
			caja.POST("/:id/iniciar-cierre", cajaH.IniciarCierre)
			caja.POST("/cierre", cajaH.ConfirmarCierre)
			caja.GET("/:id/reporte", cajaH.ObtenerReporte)
		}

		// Tasa — lectura para todos, escritura supervisor/administrador
		v1.GET("/tasa", middleware.RequireRole("cajero", "supervisor", "administrador"), tasaH.Actual)
		v1.GET("/tasa/historial", middleware.RequireRole("supervisor", "administrador"), tasaH.Historial)
		v1.POST("/tasa", middleware.RequireRole("supervisor", "administrador"), tasaH.Actualizar)
	}

	return r
}
