package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"gotrip-checkout/internal/handler/api"
	"gotrip-checkout/internal/handler/middleware"
	"gotrip-checkout/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine         *gin.Engine
	Config         config.Config
	Logger         *middleware.Logger
	Checkout       *api.CheckoutHandler
	Payment        *api.PaymentHandler
	Auth           *middleware.AuthMiddleware
	PromotionLimit *middleware.RateLimiter
	Gatherer       prometheus.Gatherer
}

func NewRouter(p RouterParams) {
	setupMiddleware(p)
	setupRoutes(p)
}

func setupMiddleware(p RouterParams) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	p.Engine.Use(p.Logger.Recovery())
	p.Engine.Use(middleware.NewCORSMiddleware(p.Config.CORS, p.Logger.GetSlogLogger()))
	p.Engine.Use(p.Logger.LoggingMiddleware())
	p.Engine.Use(p.Logger.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{})))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(p.Auth.OptionalAuth())
	{
		sessions := apiGroup.Group("/checkout/sessions")
		addRoutes(sessions, []route{
			{Method: http.MethodPost, Path: "", Handler: p.Checkout.Start},
			{Method: http.MethodGet, Path: "/:id", Handler: p.Checkout.Get},
			{Method: http.MethodPut, Path: "/:id/counts", Handler: p.Checkout.UpdateCounts},
			{Method: http.MethodPatch, Path: "/:id/passengers/:position", Handler: p.Checkout.EditPassenger},
			{Method: http.MethodPut, Path: "/:id/contact", Handler: p.Checkout.SetContact},
			{Method: http.MethodPut, Path: "/:id/add-ons", Handler: p.Checkout.SetAddOns},
			{Method: http.MethodPost, Path: "/:id/promotion", Handler: p.Checkout.ApplyPromotion, Mw: []gin.HandlerFunc{p.PromotionLimit.Middleware()}},
			{Method: http.MethodDelete, Path: "/:id/promotion", Handler: p.Checkout.ClearPromotion},
			{Method: http.MethodGet, Path: "/:id/promotions", Handler: p.Checkout.AvailablePromotions},
			{Method: http.MethodPost, Path: "/:id/validate", Handler: p.Checkout.Validate},
			{Method: http.MethodPost, Path: "/:id/submit", Handler: p.Checkout.Submit},
		})

		payments := apiGroup.Group("/payments")
		addRoutes(payments, []route{
			{Method: http.MethodPost, Path: "/url", Handler: p.Payment.CreatePaymentURL},
			{Method: http.MethodPost, Path: "/mock", Handler: p.Payment.MockPayment},
			{Method: http.MethodGet, Path: "/result", Handler: p.Payment.ResultRedirect},
			{Method: http.MethodPost, Path: "/result", Handler: p.Payment.Result},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
