package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/comercio-api/internal/auth"
	"github.com/MikeMC777/comercio-api/internal/httpx"
	"github.com/MikeMC777/comercio-api/internal/product"
	"github.com/MikeMC777/comercio-api/internal/user"
)

type routerDeps struct {
	log        *zap.Logger
	tokens     *auth.Manager
	accounts   *user.Service
	users      user.Repository
	catalog    product.Repository
	orders     orderService
	production bool
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", loginHandler(d.accounts, d.tokens))
		authGroup.POST("/register", registerHandler(d.accounts))
		authGroup.GET("/verify", verifyHandler(d.tokens))
		authGroup.POST("/password-reset", requestPasswordResetHandler(d.accounts, d.production))
		authGroup.POST("/password-reset/confirm", confirmPasswordResetHandler(d.accounts))
	}

	// catalog reads are public, writes are back-office only
	products := api.Group("/products")
	{
		products.GET("", listProductsHandler(d.catalog))
		products.GET("/categories", listProductCategoriesHandler(d.catalog))
		products.GET("/:id", getProductHandler(d.catalog))

		adminOnly := products.Group("", httpx.Authenticate(d.tokens), httpx.RequireRole(auth.RoleAdmin))
		adminOnly.POST("", createProductHandler(d.catalog))
		adminOnly.PUT("/:id", updateProductHandler(d.catalog))
		adminOnly.DELETE("/:id", deleteProductHandler(d.catalog))
	}

	users := api.Group("/users", httpx.Authenticate(d.tokens), httpx.RequireRole(auth.RoleAdmin))
	{
		users.GET("", listUsersHandler(d.users))
		users.GET("/:id", getUserHandler(d.users))
		users.POST("", createUserHandler(d.accounts))
		users.PUT("/:id", updateUserHandler(d.accounts))
		users.DELETE("/:id", deleteUserHandler(d.users))
	}

	profile := api.Group("/profile", httpx.Authenticate(d.tokens))
	{
		profile.GET("", getProfileHandler(d.users))
		profile.PUT("", updateProfileHandler(d.accounts))
	}

	// orders: any authenticated caller may read (ownership is enforced by
	// the service), only admins mutate
	orders := api.Group("/orders", httpx.Authenticate(d.tokens))
	{
		orders.GET("", listOrdersHandler(d.orders))
		orders.GET("/:id", getOrderHandler(d.orders))
		orders.GET("/:id/items", listOrderItemsHandler(d.orders))

		adminOnly := orders.Group("", httpx.RequireRole(auth.RoleAdmin))
		adminOnly.POST("", createOrderHandler(d.orders))
		adminOnly.PUT("/:id", updateOrderHandler(d.orders))
		adminOnly.PUT("/:id/status", updateOrderStatusHandler(d.orders))
		adminOnly.POST("/:id/items", addOrderItemHandler(d.orders))
		adminOnly.PUT("/:id/items", updateOrderItemHandler(d.orders))
		adminOnly.PATCH("/:id/items", adjustOrderItemHandler(d.orders))
		adminOnly.DELETE("/:id/items", removeOrderItemHandler(d.orders))
		adminOnly.DELETE("/:id", deleteOrderHandler(d.orders))
	}

	return r
}
