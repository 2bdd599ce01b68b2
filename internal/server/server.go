// Package server exposes the back office HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/config"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues"
	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/member"
	memberdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/member/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/observability"
	obsmiddleware "github.com/PelvK/club-sarmiento-management-sub000/internal/observability/logger"
	obsmetrics "github.com/PelvK/club-sarmiento-management-sub000/internal/observability/metrics"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/payment"
	paymentdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/payment/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/quote"
	quotedomain "github.com/PelvK/club-sarmiento-management-sub000/internal/quote/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/sport"
	sportdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/sport/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	sport.Module,
	quote.Module,
	member.Module,
	dues.Module,
	payment.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
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
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	genID      *snowflake.Node
	sportSvc   sportdomain.Service
	quoteSvc   quotedomain.Service
	memberSvc  memberdomain.Service
	duesSvc    duesdomain.Service
	paymentSvc paymentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	GenID      *snowflake.Node
	SportSvc   sportdomain.Service
	QuoteSvc   quotedomain.Service
	MemberSvc  memberdomain.Service
	DuesSvc    duesdomain.Service
	PaymentSvc paymentdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		genID:      p.GenID,
		sportSvc:   p.SportSvc,
		quoteSvc:   p.QuoteSvc,
		memberSvc:  p.MemberSvc,
		duesSvc:    p.DuesSvc,
		paymentSvc: p.PaymentSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Sports --------
	api.GET("/sports", s.ListSports)
	api.POST("/sports", s.CreateSport)
	api.GET("/sports/:id", s.GetSportByID)
	api.PATCH("/sports/:id", s.UpdateSport)
	api.DELETE("/sports/:id", s.DeleteSport)

	// -------- Quotes --------
	api.GET("/quotes", s.ListQuotes)
	api.POST("/quotes", s.CreateQuote)
	api.GET("/quotes/:id", s.GetQuoteByID)
	api.PATCH("/quotes/:id", s.UpdateQuote)
	api.DELETE("/quotes/:id", s.DeleteQuote)

	// -------- Members --------
	api.GET("/members", s.ListMembers)
	api.POST("/members", s.CreateMember)
	api.GET("/members/:id", s.GetMemberByID)
	api.PATCH("/members/:id", s.UpdateMember)
	api.DELETE("/members/:id", s.DeleteMember)
	api.POST("/members/:id/enrollments", s.EnrollMember)
	api.DELETE("/members/:id/enrollments/:sportId", s.UnenrollMember)
	api.POST("/members/:id/enrollments/:sportId/principal", s.SetPrincipalEnrollment)
	api.PUT("/members/:id/enrollments/:sportId/quote", s.SetEnrollmentQuote)
	api.PUT("/members/:id/societary-quote", s.SetSocietaryQuote)
	api.GET("/members/:id/dues", s.ListMemberDues)

	// -------- Dues generation --------
	api.POST("/generations/preview", s.PreviewGeneration)
	api.POST("/generations", s.ConfirmGeneration)
	api.GET("/generations", s.ListGenerations)
	api.GET("/generations/:id", s.GetGenerationByID)
	api.POST("/generations/:id/revert", s.RevertGeneration)

	// -------- Payments --------
	api.POST("/payments", s.RegisterPayment)
	api.GET("/receipts", s.ListReceipts)
}
