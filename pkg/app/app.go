// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/handle"
	"github.com/yeisme/filevault/pkg/internal/indexer"
	"github.com/yeisme/filevault/pkg/internal/jobs"
	"github.com/yeisme/filevault/pkg/internal/router"
	"github.com/yeisme/filevault/pkg/internal/storage"
	"github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/metrics"
	"github.com/yeisme/filevault/pkg/middleware"
	"github.com/yeisme/filevault/pkg/scheduler"
)

type App struct {
	Engine  *gin.Engine
	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()
	engine := gin.New()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	config := configs.GetConfig()
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	// 文件仓库根目录不存在时先建出来，后续遍历和上传都依赖它
	if err := os.MkdirAll(config.Vault.FileRoot, 0o755); err != nil {
		fmt.Printf("Error creating vault root: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	ix := indexer.New(manager.GetDBClient(), manager.GetSearchClient(), config.Vault.FileRoot, config.Index)
	handle.SetIndexer(ix)

	if err := ix.SubscribeHooks(ctx, manager.GetMQClient()); err != nil {
		fmt.Printf("Error subscribing index hooks: %v\n", err)
		os.Exit(1)
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error creating scheduler: %v\n", err)
		os.Exit(1)
	}
	if err := jobs.RegisterCronJobs(sched, ix, config.Index.DailyAt); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}
	sched.Start()

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine.Use(
		gin.Recovery(),
		middleware.CORSMiddleware(config.Server),
		middleware.GinLoggerMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		// 下载接口自己控制 Content-Length / Content-Range，不要再套一层压缩
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{
			"/api/v1/fs/download",
			"/api/v1/fs/download-zip",
		})),
	)

	router.RegisterAll(engine.Group("/api/v1"))

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
	}
}

func (a *App) Run() error {
	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}

// Close 停止定时任务并释放存储连接.
func (a *App) Close() error {
	if err := a.sched.Stop(); err != nil {
		return err
	}
	return a.manager.Close()
}
