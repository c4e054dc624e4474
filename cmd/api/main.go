package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/comercio-api/internal/auth"
	"github.com/MikeMC777/comercio-api/internal/config"
	"github.com/MikeMC777/comercio-api/internal/order"
	"github.com/MikeMC777/comercio-api/internal/product"
	"github.com/MikeMC777/comercio-api/internal/storage"
	"github.com/MikeMC777/comercio-api/internal/user"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := storage.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pool.Close()

	tokens := auth.NewManager([]byte(cfg.JWTSecret), cfg.JWTTTL)

	userRepo := user.NewPGRepo(pool)
	accounts := user.NewService(userRepo, user.NewPGResetStore(pool))
	catalog := product.NewPGRepo(pool)
	orders := order.NewService(order.NewPGRepo(pool), catalog, userRepo, auth.RolePolicy{})

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(routerDeps{
		log:        logger,
		tokens:     tokens,
		accounts:   accounts,
		users:      userRepo,
		catalog:    catalog,
		orders:     orders,
		production: cfg.Production(),
	})

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
