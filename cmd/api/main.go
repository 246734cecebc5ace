package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/manuelveliznajera/backend-SDigitales/internal/cache"
	"github.com/manuelveliznajera/backend-SDigitales/internal/config"
	"github.com/manuelveliznajera/backend-SDigitales/internal/database"
	"github.com/manuelveliznajera/backend-SDigitales/internal/handler"
	"github.com/manuelveliznajera/backend-SDigitales/internal/invoice"
	"github.com/manuelveliznajera/backend-SDigitales/internal/middleware"
	"github.com/manuelveliznajera/backend-SDigitales/internal/repository"
	"github.com/manuelveliznajera/backend-SDigitales/internal/service"
	"github.com/manuelveliznajera/backend-SDigitales/internal/storage"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
	"github.com/manuelveliznajera/backend-SDigitales/pkg/recurrente"
)

// main is the application entrypoint for the back-office API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting backend-sdigitales api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	cuponCache := cache.NewCuponCache(redisClient)

	// 3c. Prepare the uploads area
	files, err := storage.New(cfg.UploadsDir)
	if err != nil {
		log.Error().Err(err).Msg("uploads directory setup failed")
		fmt.Fprintf(os.Stderr, "uploads directory setup failed: %v\n", err)
		os.Exit(1)
	}

	// 4. Initialize the Recurrente client
	recurrenteClient := recurrente.NewClient(cfg.Recurrente.PublicKey, cfg.Recurrente.SecretKey)

	// 5. Initialize repositories
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	licenciaRepo := repository.NewLicenciaRepository(db)
	cuponRepo := repository.NewCuponRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// 6. Initialize services
	usuarioSvc := service.NewUsuarioService(usuarioRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, files)
	productoSvc := service.NewProductoService(productoRepo, files)
	licenciaSvc := service.NewLicenciaService(licenciaRepo)
	cuponSvc := service.NewCuponService(cuponRepo, cuponCache)
	ventaSvc := service.NewVentaService(ventaRepo, cuponSvc, files)

	renderer := invoice.NewRenderer(cfg.Invoice)

	// 7. Initialize handlers
	handlers := &Handlers{
		Usuario:    handler.NewUsuarioHandler(usuarioSvc),
		Categoria:  handler.NewCategoriaHandler(categoriaSvc, files),
		Producto:   handler.NewProductoHandler(productoSvc, files),
		Licencia:   handler.NewLicenciaHandler(licenciaSvc),
		Cupon:      handler.NewCuponHandler(cuponSvc),
		Venta:      handler.NewVentaHandler(ventaSvc, renderer, files),
		Recurrente: handler.NewRecurrenteHandler(recurrenteClient, cfg.Recurrente),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Static("/uploads", files.BaseDir())
	setupRoutes(router, handlers, jwtMw)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Usuario    *handler.UsuarioHandler
	Categoria  *handler.CategoriaHandler
	Producto   *handler.ProductoHandler
	Licencia   *handler.LicenciaHandler
	Cupon      *handler.CuponHandler
	Venta      *handler.VentaHandler
	Recurrente *handler.RecurrenteHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMw *middleware.JWTMiddleware) {
	router.GET("/", handler.Liveness)

	auth := jwtMw.Handle()

	// Accounts: login and registration are public, management requires a token
	usuario := router.Group("/api/usuario")
	{
		usuario.POST("/login", handlers.Usuario.Login)
		usuario.POST("/", handlers.Usuario.Register)
		usuario.GET("/", auth, handlers.Usuario.List)
		usuario.GET("/:id", auth, handlers.Usuario.GetByID)
		usuario.PUT("/:id", auth, handlers.Usuario.Update)
		usuario.DELETE("/:id", auth, handlers.Usuario.Delete)
	}

	// Categories: reads are public, writes require a token
	categoria := router.Group("/api/categoria")
	{
		categoria.GET("/", handlers.Categoria.List)
		categoria.POST("/", auth, handlers.Categoria.Create)
		categoria.PUT("/:id", auth, handlers.Categoria.Update)
		categoria.DELETE("/:id", auth, handlers.Categoria.Delete)
	}

	// Products: reads are public, writes require a token
	producto := router.Group("/api/producto")
	{
		producto.GET("/", handlers.Producto.List)
		producto.GET("/:id", handlers.Producto.GetByID)
		producto.POST("/", auth, handlers.Producto.Create)
		producto.PUT("/:id", auth, handlers.Producto.Update)
		producto.DELETE("/:id", auth, handlers.Producto.Delete)
	}

	// Licenses: everything requires a token
	licencia := router.Group("/api/licencia")
	licencia.Use(auth)
	{
		licencia.POST("/asignar/detalle/:ventaId", handlers.Licencia.Bind)
		licencia.GET("/producto/:productoId", handlers.Licencia.GetByProducto)
		licencia.POST("/", handlers.Licencia.Create)
		licencia.GET("/", handlers.Licencia.List)
		licencia.PUT("/:id", handlers.Licencia.Update)
		licencia.DELETE("/:id", handlers.Licencia.Delete)
		licencia.GET("/:id", handlers.Licencia.GetByID)
	}

	// Coupons: validation is public for the storefront, the rest requires a token
	cupones := router.Group("/api/cupones")
	{
		cupones.POST("/validar", handlers.Cupon.Validate)
		cupones.GET("/", auth, handlers.Cupon.List)
		cupones.GET("/:id", auth, handlers.Cupon.GetByID)
		cupones.POST("", auth, handlers.Cupon.Create)
		cupones.PUT("/:id", auth, handlers.Cupon.Update)
		cupones.DELETE("/:id", auth, handlers.Cupon.Delete)
	}

	// Checkout redirect
	router.POST("/api/recurrente/checkout", handlers.Recurrente.CreateCheckout)

	// Sales: consumed by the storefront without authentication
	ventas := router.Group("/api/ventas")
	{
		ventas.POST("/", handlers.Venta.Create)
		ventas.GET("/", handlers.Venta.List)
		ventas.GET("/:id", handlers.Venta.GetByID)
		ventas.PUT("/:id", handlers.Venta.Update)
		ventas.PUT("/estado/:id", handlers.Venta.SetStatus)
		ventas.DELETE("/:id", handlers.Venta.Delete)
		ventas.GET("/:id/factura", handlers.Venta.Invoice)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
