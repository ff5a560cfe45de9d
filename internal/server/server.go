package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/auth"
	authdomain "github.com/abogados-sv/facturacion/internal/auth/domain"
	authmiddleware "github.com/abogados-sv/facturacion/internal/auth/middleware"
	"github.com/abogados-sv/facturacion/internal/auth/session"
	"github.com/abogados-sv/facturacion/internal/catalog"
	catalogdomain "github.com/abogados-sv/facturacion/internal/catalog/domain"
	"github.com/abogados-sv/facturacion/internal/client"
	clientdomain "github.com/abogados-sv/facturacion/internal/client/domain"
	"github.com/abogados-sv/facturacion/internal/config"
	"github.com/abogados-sv/facturacion/internal/connectivity"
	"github.com/abogados-sv/facturacion/internal/dte"
	dtedomain "github.com/abogados-sv/facturacion/internal/dte/domain"
	"github.com/abogados-sv/facturacion/internal/expense"
	expensedomain "github.com/abogados-sv/facturacion/internal/expense/domain"
	"github.com/abogados-sv/facturacion/internal/geo"
	geodomain "github.com/abogados-sv/facturacion/internal/geo/domain"
	"github.com/abogados-sv/facturacion/internal/invoice"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
	obslogger "github.com/abogados-sv/facturacion/internal/observability/logger"
	obsmetrics "github.com/abogados-sv/facturacion/internal/observability/metrics"
	obstracing "github.com/abogados-sv/facturacion/internal/observability/tracing"
	"github.com/abogados-sv/facturacion/internal/override"
	overridedomain "github.com/abogados-sv/facturacion/internal/override/domain"
	"github.com/abogados-sv/facturacion/internal/providers/pdf"
	"github.com/abogados-sv/facturacion/internal/ratelimit"
	"github.com/abogados-sv/facturacion/internal/staffuser"
	staffdomain "github.com/abogados-sv/facturacion/internal/staffuser/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	catalog.Module,
	client.Module,
	connectivity.Module,
	dte.Module,
	expense.Module,
	geo.Module,
	invoice.Module,
	override.Module,
	pdf.Module,
	ratelimit.Module,
	staffuser.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           cfg.Environment != "production",
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(cfg, metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	authsvc         authdomain.Service
	sessions        *session.Manager
	catalogSvc      catalogdomain.Service
	clientSvc       clientdomain.Service
	invoiceSvc      invoicedomain.Service
	expenseSvc      expensedomain.Service
	staffSvc        staffdomain.Service
	overrideSvc     overridedomain.Service
	dteSvc          dtedomain.Service
	geoRepo         geodomain.Repository
	sentinel        *connectivity.Sentinel
	pdfProvider     pdf.Provider
	overrideLimiter *ratelimit.OverrideAttemptLimiter
	metrics         *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	Authsvc         authdomain.Service
	Sessions        *session.Manager
	CatalogSvc      catalogdomain.Service
	ClientSvc       clientdomain.Service
	InvoiceSvc      invoicedomain.Service
	ExpenseSvc      expensedomain.Service
	StaffSvc        staffdomain.Service
	OverrideSvc     overridedomain.Service
	DTESvc          dtedomain.Service
	GeoRepo         geodomain.Repository
	Sentinel        *connectivity.Sentinel
	PDFProvider     pdf.Provider
	OverrideLimiter *ratelimit.OverrideAttemptLimiter `optional:"true"`
	Metrics         *obsmetrics.Metrics               `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		catalogSvc:      p.CatalogSvc,
		clientSvc:       p.ClientSvc,
		invoiceSvc:      p.InvoiceSvc,
		expenseSvc:      p.ExpenseSvc,
		staffSvc:        p.StaffSvc,
		overrideSvc:     p.OverrideSvc,
		dteSvc:          p.DTESvc,
		geoRepo:         p.GeoRepo,
		sentinel:        p.Sentinel,
		pdfProvider:     p.PDFProvider,
		overrideLimiter: p.OverrideLimiter,
		metrics:         p.Metrics,
	}
}

func registerRoutes(s *Server) {
	s.registerAuthRoutes()
	s.registerAPIRoutes()
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return authmiddleware.WebAuthRequired(s.sessions, s.authsvc)
}

func (s *Server) AdminRequired() gin.HandlerFunc {
	return authmiddleware.AdminRequired()
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/api/auth")

	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.WebAuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.WebAuthRequired())

	// -------- Catalog --------
	api.GET("/service-categories", s.ListServiceCategories)
	api.POST("/service-categories", s.CreateServiceCategory)
	api.PUT("/service-categories/:id", s.UpdateServiceCategory)
	api.DELETE("/service-categories/:id", s.DeleteServiceCategory)

	api.GET("/services", s.ListServices)
	api.POST("/services", s.CreateService)
	api.GET("/services/:id", s.GetService)
	api.PUT("/services/:id", s.UpdateService)
	api.DELETE("/services/:id", s.DeleteService)
	api.POST("/services/:id/quick-price", s.QuickPriceChange)

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClient)
	api.PUT("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/export/", s.ExportInvoicesCSV)
	api.GET("/invoices/export/xlsx", s.ExportInvoicesXLSX)
	api.GET("/invoices/:id", s.GetInvoice)
	api.PUT("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.GET("/invoices/:id/pdf", s.InvoicePDF)
	api.GET("/invoices/:id/dte-records", s.ListDTERecords)

	api.GET("/invoice-items", s.ListInvoiceItems)

	// -------- Expenses --------
	api.GET("/expenses", s.ListExpenses)
	api.POST("/expenses", s.CreateExpense)
	api.GET("/expenses/:id", s.GetExpense)
	api.PUT("/expenses/:id", s.UpdateExpense)
	api.DELETE("/expenses/:id", s.DeleteExpense)

	// -------- Staff users (admin only) --------
	api.GET("/staff-users", s.AdminRequired(), s.ListStaffUsers)
	api.POST("/staff-users", s.AdminRequired(), s.CreateStaffUser)
	api.GET("/staff-users/:id", s.AdminRequired(), s.GetStaffUser)
	api.PUT("/staff-users/:id", s.AdminRequired(), s.UpdateStaffUser)
	api.DELETE("/staff-users/:id", s.AdminRequired(), s.DeleteStaffUser)

	// -------- Geography catalogs --------
	api.GET("/geo/departments", s.ListDepartments)
	api.GET("/geo/municipalities", s.ListMunicipalities)
	api.GET("/activities", s.ListActivities)

	// -------- Price overrides --------
	api.POST("/price-overrides/validate/", s.ValidateOverrideCode)

	// -------- DTE --------
	api.POST("/resend-dte/", s.ResendDTE)
	api.POST("/dte/invalidate/", s.InvalidateDTE)
	api.GET("/status/connectivity/", s.ConnectivityStatus)
}
