package route

import (
	"net/http"
	"time"

	"cafelist/auth"
	"cafelist/cache"
	"cafelist/config"
	"cafelist/controller"
	"cafelist/repository"
	"cafelist/service"
	"cafelist/utils"
	"cafelist/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxFormBody = 64 << 10

// Deps is everything the router needs; main builds it once.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	KV     cache.KVStore
	Logger *zap.Logger
}

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config

	router := gin.New()
	router.Use(utils.RequestLogger(d.Logger), gin.Recovery())
	router.SetHTMLTemplate(web.Templates())
	router.NoRoute(func(c *gin.Context) {
		utils.RenderError(c, http.StatusNotFound, "Page not found")
	})

	cafes := service.NewCafeService(repository.NewCafeRepo(d.DB), d.KV, cfg.Cache.Prefix, cfg.Cache.TTL, d.Logger)
	tokens := utils.NewTokens(cfg.SecretKey, cfg.SessionTTL)
	secure := cfg.Env == "production"
	csrf := utils.NewCSRF(tokens, cfg.CSRFEnabled, secure)

	router.GET("/healthz", controller.Health(d.DB))
	CafeRoutes(router, controller.NewCafeController(cafes, csrf, cfg, d.Logger), cfg)
	AdminRoutes(router,
		controller.NewAdminController(cafes, csrf, cfg, d.Logger),
		auth.NewHandler(repository.NewAdminRepo(d.DB), tokens, cfg.AdminRoot(), cfg.SessionTTL, secure, d.Logger),
		tokens, csrf, cfg)
	return router
}

func CafeRoutes(router *gin.Engine, cc *controller.CafeController, cfg *config.Config) {
	router.GET("/", cc.Home)
	router.GET("/add", cc.AddForm)
	router.POST("/add", utils.LimitBody(maxFormBody), cc.AddCafe)

	origins := []string{"http://localhost:3000"}
	origins = append(origins, cfg.AllowedOrigins...)
	api := router.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", utils.APIKeyHeader},
		ExposeHeaders: []string{"Content-Length", utils.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	api.Use(utils.APIKeyMiddleware(cfg.APIKey))
	{
		api.GET("/cafes", cc.ListAPI)
	}
}

func AdminRoutes(router *gin.Engine, ac *controller.AdminController, ah *auth.Handler, tokens *utils.Tokens, csrf *utils.CSRF, cfg *config.Config) {
	root := cfg.AdminRoot()
	admin := router.Group(root)
	admin.GET("/login", ah.LoginForm)
	admin.POST("/login", ah.Login)
	admin.GET("/logout", ah.Logout)

	protected := admin.Group("")
	protected.Use(utils.AdminMiddleware(tokens, root+"/login"))
	{
		protected.GET("", ac.Dashboard)
		protected.POST("/delete/:id", csrf.Middleware(), ac.DeleteCafe)
		protected.GET("/export", ac.Export)
		protected.POST("/import", utils.LimitBody(controller.MaxImportBody), csrf.Middleware(), ac.Import)
	}
}
