package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"multishop_v1/internal/controller"
	"multishop_v1/internal/middleware"
	"multishop_v1/internal/model"
)

// Controllers 路由层依赖的全部控制器
type Controllers struct {
	Auth         *controller.AuthController
	User         *controller.UserController
	Shop         *controller.ShopController
	Product      *controller.ProductController
	Order        *controller.OrderController
	Review       *controller.ReviewController
	Notification *controller.NotificationController
	Analytics    *controller.AnalyticsController
}

// InitRoutes 注册所有路由
// 店铺内接口统一挂在 /shops/:slug 下，slug 即租户标识
func InitRoutes(r *gin.Engine, chain *middleware.AuthChain, ctls Controllers) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// 2. 公开路由
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", ctls.Auth.Register)
		authGroup.POST("/login", ctls.Auth.Login)
		authGroup.POST("/refresh", ctls.Auth.Refresh)
	}

	// 3. 认证路由
	// 身份解析后统一做一次租户解析，query/header 上的店铺标识也在这里生效
	authed := api.Group("")
	authed.Use(chain.Authenticate(), middleware.AuditContext(), chain.ResolveTenant())
	{
		// 个人中心
		authed.GET("/me", ctls.Auth.Me)
		authed.PUT("/me", ctls.Auth.UpdateMe)
		authed.PUT("/me/password", ctls.Auth.ChangePassword)

		// 店铺注册与我的店铺
		authed.POST("/shops", middleware.ActionRateLimit("shop_register", 10*time.Second), ctls.Shop.Register)
		authed.GET("/shops/mine", ctls.Shop.ListMine)

		// 买家侧订单
		authed.GET("/orders/mine", ctls.Order.ListMine)
		authed.PUT("/orders/:id/cancel", ctls.Order.Cancel)

		// 通知
		authed.GET("/notifications", ctls.Notification.List)
		authed.GET("/notifications/unread-count", ctls.Notification.UnreadCount)
		authed.PUT("/notifications/read-all", ctls.Notification.MarkAllRead)
		authed.PUT("/notifications/:id/read", ctls.Notification.MarkRead)

		// 4. 店铺内路由
		shop := authed.Group("/shops/:slug")
		shop.Use(chain.RequireTenant())
		{
			// 店铺资料：浏览不限角色，修改需要店铺管理员
			shop.GET("", ctls.Shop.Get)
			shop.PUT("", chain.RequireRole(model.ShopRoleAdmin), ctls.Shop.Update)

			// 成员管理
			members := shop.Group("/members")
			{
				members.GET("", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager), ctls.Shop.ListMembers)
				members.POST("", chain.RequireRole(model.ShopRoleAdmin), ctls.Shop.AddMember)
				members.PUT("/:id", chain.RequireRole(model.ShopRoleAdmin), ctls.Shop.UpdateMember)
				members.DELETE("/:id", chain.RequireRole(model.ShopRoleAdmin), ctls.Shop.RemoveMember)
			}

			// 商品：浏览开放给所有登录用户，维护需要店铺管理角色
			products := shop.Group("/products")
			{
				products.GET("", ctls.Product.List)
				products.GET("/:id", ctls.Product.Get)
				products.GET("/:id/reviews", ctls.Review.ListApproved)
				products.POST("", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager), ctls.Product.Create)
				products.PUT("/:id", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager), ctls.Product.Update)
				products.PUT("/:id/stock", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager, model.ShopRoleStaff), ctls.Product.AdjustStock)
				products.DELETE("/:id", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager), ctls.Product.Delete)
			}

			// 订单：下单是买家行为，处理是店员行为
			orders := shop.Group("/orders")
			{
				orders.POST("", middleware.ActionRateLimit("order_create", time.Second), ctls.Order.Create)
				orders.GET("", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager, model.ShopRoleStaff), ctls.Order.List)
				orders.GET("/:id", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager, model.ShopRoleStaff), ctls.Order.Get)
				orders.PUT("/:id/process", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager, model.ShopRoleStaff), ctls.Order.Process)
				orders.PUT("/:id/ship", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager, model.ShopRoleStaff), ctls.Order.Ship)
				orders.PUT("/:id/deliver", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager, model.ShopRoleStaff), ctls.Order.Deliver)
			}

			// 评价：提交是买家行为，审核需要管理角色
			reviews := shop.Group("/reviews")
			{
				reviews.POST("", middleware.ActionRateLimit("review_create", 3*time.Second), ctls.Review.Create)
				reviews.GET("", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager, model.ShopRoleStaff), ctls.Review.List)
				reviews.PUT("/:id/moderate", chain.RequireRole(model.ShopRoleAdmin, model.ShopRoleManager), ctls.Review.Moderate)
			}
		}

		// 5. 平台管理路由
		// 无租户上下文时 RequireRole 按平台级角色判定
		admin := authed.Group("/admin")
		{
			admin.GET("/users", chain.RequireRole(model.RoleAdmin, model.RoleManager), ctls.User.List)
			admin.PUT("/users/:id/role", chain.RequireRole(model.RoleAdmin), ctls.User.SetRole)
			admin.PUT("/users/:id/active", chain.RequireRole(model.RoleAdmin), ctls.User.SetActive)

			admin.GET("/shops", chain.RequireRole(model.RoleAdmin, model.RoleManager), ctls.Shop.List)
			admin.PUT("/shops/:id/suspend", chain.RequireRole(model.RoleAdmin), ctls.Shop.Suspend)
			admin.PUT("/shops/:id/restore", chain.RequireRole(model.RoleAdmin), ctls.Shop.Restore)

			admin.GET("/analytics/overview", chain.RequireRole(model.RoleAdmin, model.RoleManager), ctls.Analytics.Overview)
		}
	}
}
