package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/raisehub/raisehub-backend/config"
	httpapi "github.com/raisehub/raisehub-backend/internal/api/http"
	"github.com/raisehub/raisehub-backend/internal/api/http/middleware"
	"github.com/raisehub/raisehub-backend/internal/auth"
	"github.com/raisehub/raisehub-backend/internal/notifications"
	projhttp "github.com/raisehub/raisehub-backend/internal/projects/http"
	projrepo "github.com/raisehub/raisehub-backend/internal/projects/repository"
	projservice "github.com/raisehub/raisehub-backend/internal/projects/service"
	statshttp "github.com/raisehub/raisehub-backend/internal/stats/http"
	statsservice "github.com/raisehub/raisehub-backend/internal/stats/service"
	userhttp "github.com/raisehub/raisehub-backend/internal/users/http"
	userrepo "github.com/raisehub/raisehub-backend/internal/users/repository"
	userservice "github.com/raisehub/raisehub-backend/internal/users/service"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Log         *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	projectRepo := projrepo.NewPostgresRepository(dep.DB)
	userRepo := userrepo.NewPostgresRepository(dep.DB)

	queue := notifications.NewQueue(dep.Redis)
	stats := statsservice.NewStatsService(projectRepo, userRepo, dep.Redis,
		time.Duration(dep.Config.Admin.StatsCacheTTL)*time.Second, dep.Log)

	projectSvc := projservice.NewModerationService(projectRepo, queue, stats, dep.Log)
	userSvc := userservice.NewModerationService(userRepo, queue, stats, dep.Log)

	tokens := auth.NewTokenManager(dep.Config.Auth.JWTSecret)

	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.RateLimit(rate.Limit(20), 40))
	admin.Use(auth.Middleware(tokens))

	projhttp.NewHandler(projectSvc, dep.Config.Admin.ProjectPageSize, dep.Config.Admin.MaxPageSize).
		Register(admin.Group("/projects"))
	userhttp.NewHandler(userSvc, dep.Config.Admin.UserPageSize, dep.Config.Admin.MaxPageSize).
		Register(admin.Group("/users"))
	statshttp.NewHandler(stats).Register(admin)

	return r
}
