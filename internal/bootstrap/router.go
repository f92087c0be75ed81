package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/blechwerk/zeichnungsarchiv/internal/api/http"
	"github.com/blechwerk/zeichnungsarchiv/internal/api/http/middleware"
	"github.com/blechwerk/zeichnungsarchiv/internal/dinformats"
	dinhttp "github.com/blechwerk/zeichnungsarchiv/internal/dinformats/http"
	"github.com/blechwerk/zeichnungsarchiv/internal/files"
	fileshttp "github.com/blechwerk/zeichnungsarchiv/internal/files/http"
	"github.com/blechwerk/zeichnungsarchiv/internal/projects"
	projectshttp "github.com/blechwerk/zeichnungsarchiv/internal/projects/http"
	"github.com/blechwerk/zeichnungsarchiv/internal/titleblock"
	titleblockhttp "github.com/blechwerk/zeichnungsarchiv/internal/titleblock/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Env         string
	CORSOrigins []string

	DB    *pgxpool.Pool
	Redis *redis.Client

	Projects    *projects.Service
	Files       *files.Service
	DinFormats  *dinformats.Repo
	Titleblocks *titleblock.Repo
	Extractor   *titleblock.Service
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	if dep.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(dep.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = dep.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-Id"}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	projectshttp.Register(r, dep.Projects)
	fileshttp.Register(r, dep.Files)
	dinhttp.Register(r, dep.DinFormats)
	titleblockhttp.Register(r, dep.Titleblocks, dep.Extractor)

	return r
}
