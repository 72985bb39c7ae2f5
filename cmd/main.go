package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"multishop_v1/internal/auth"
	"multishop_v1/internal/controller"
	"multishop_v1/internal/middleware"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
	"multishop_v1/internal/router"
	"multishop_v1/internal/service"
	"multishop_v1/internal/task"
	"multishop_v1/pkg/config"
	"multishop_v1/pkg/database"
	"multishop_v1/pkg/logger"
)

func main() {
	// 1. 配置与日志
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Sync()

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	tm := initTasks(deps)
	defer tm.Stop()

	// 5. 初始化路由
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	router.InitRoutes(r, deps.AuthChain, deps.Controllers)

	// 6. 启动服务
	startServer(cfg, r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	AuthChain   *middleware.AuthChain
	Controllers router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User         repository.UserRepository
	Shop         repository.ShopRepository
	Member       repository.ShopMemberRepository
	Product      repository.ProductRepository
	Order        repository.OrderRepository
	Review       repository.ReviewRepository
	Notification repository.NotificationRepository
}

// Services 服务集合
type Services struct {
	Auth         *service.AuthService
	User         *service.UserService
	Shop         *service.ShopService
	Product      *service.ProductService
	Order        *service.OrderService
	Review       *service.ReviewService
	Notification *service.NotificationService
	Analytics    *service.AnalyticsService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	db := database.InitDB(cfg.DatabaseDSN, cfg.Env,
		// 账号
		&model.User{},
		// 店铺
		&model.Shop{}, &model.ShopMember{},
		// 商品
		&model.Product{},
		// 订单
		&model.Order{}, &model.OrderItem{},
		// 评价
		&model.Review{},
		// 通知
		&model.Notification{},
	)
	middleware.RegisterAuditCallbacks(db)
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:         repository.NewUserRepository(db),
		Shop:         repository.NewShopRepository(db),
		Member:       repository.NewShopMemberRepository(db),
		Product:      repository.NewProductRepository(db),
		Order:        repository.NewOrderRepository(db),
		Review:       repository.NewReviewRepository(db),
		Notification: repository.NewNotificationRepository(db),
	}

	// -------- 认证组件 --------
	verifier := auth.NewTokenVerifier(&auth.VerifierConfig{
		SharedSecret:   cfg.AuthSharedSecret,
		IssuerURL:      cfg.AuthIssuerURL,
		ExpectedIssuer: cfg.AuthExpectedIssuer,
	}, auth.NewJWKSProvider())

	// 兼容路径按开关装配，关闭时保持 nil 不可达
	var legacy *auth.LegacyVerifier
	if cfg.LegacyAuthEnabled {
		legacyCfg := auth.DefaultLegacyConfig()
		if cfg.LegacyAuthSecret != "" {
			legacyCfg.SecretKey = cfg.LegacyAuthSecret
		}
		legacyCfg.AccessTokenTTL = cfg.LegacyTokenTTL
		legacy = auth.NewLegacyVerifier(legacyCfg)
	}

	chain := &middleware.AuthChain{
		Verifier: verifier,
		Legacy:   legacy,
		Identity: auth.NewIdentityResolver(repos.User),
		Tenant:   auth.NewTenantResolver(repos.Shop),
		Gate:     auth.NewGate(repos.Member, repos.User),
		DevMode:  cfg.Env != "prod",
	}

	// -------- 缓存 (可选) --------
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logger.L().Warn("Redis 连接失败，统计缓存降级为直查", zap.Error(err))
			cache = nil
		}
	}

	// -------- 业务服务 --------
	notifySvc := service.NewNotificationService(repos.Notification)
	services := &Services{
		Auth:         service.NewAuthService(repos.User, legacy),
		User:         service.NewUserService(repos.User),
		Shop:         service.NewShopService(repos.Shop, repos.Member, repos.User),
		Product:      service.NewProductService(repos.Product),
		Order:        service.NewOrderService(repos.Order, repos.Product, notifySvc),
		Review:       service.NewReviewService(repos.Review, repos.Product, notifySvc, logger.Named("review_svc")),
		Notification: notifySvc,
		Analytics:    service.NewAnalyticsService(repos.User, repos.Shop, repos.Product, repos.Order, cache, logger.Named("analytics_svc")),
	}

	// -------- Controller 层 --------
	controllers := router.Controllers{
		Auth:         controller.NewAuthController(services.Auth, services.User),
		User:         controller.NewUserController(services.User),
		Shop:         controller.NewShopController(services.Shop),
		Product:      controller.NewProductController(services.Product),
		Order:        controller.NewOrderController(services.Order),
		Review:       controller.NewReviewController(services.Review),
		Notification: controller.NewNotificationController(services.Notification),
		Analytics:    controller.NewAnalyticsController(services.Analytics),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		AuthChain:   chain,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化并启动定时任务
func initTasks(deps *Dependencies) *task.TaskManager {
	tm := task.NewTaskManager(&task.TaskManagerDeps{
		OrderRepo:     deps.Repos.Order,
		OrderService:  deps.Services.Order,
		NotifyService: deps.Services.Notification,
	}, task.DefaultConfig(), logger.Named("task"))
	tm.Start()
	return tm
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(cfg *config.Config, r *gin.Engine) {
	log := logger.Named("server")

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Info("服务启动", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务强制关闭", zap.Error(err))
	}

	log.Info("服务已退出")
}
