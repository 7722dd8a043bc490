package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-marketplace-client/api"
	"food-marketplace-client/broadcast"
	"food-marketplace-client/cart"
	"food-marketplace-client/checkout"
	"food-marketplace-client/config"
	"food-marketplace-client/dashboard"
	"food-marketplace-client/devapi"
	"food-marketplace-client/handlers"
	"food-marketplace-client/middleware"
	"food-marketplace-client/routes"
	"food-marketplace-client/session"
	"food-marketplace-client/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// topicForKey maps a storage key to the change signal it stands for.
var topicForKey = map[string]broadcast.Topic{
	storage.KeyToken:       broadcast.TopicAuth,
	storage.KeyCurrentUser: broadcast.TopicAuth,
	storage.KeyCart:        broadcast.TopicCart,
}

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatalw("client stopped", "error", err)
	}
}

func run(cfg config.Config, logger *zap.SugaredLogger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DevAPIAddr != "" {
		if err := startDevAPI(ctx, cfg, logger); err != nil {
			return err
		}
	}

	// storage
	db, err := config.OpenStore(cfg.StoragePath)
	if err != nil {
		return err
	}
	store, err := storage.NewGormStore(db)
	if err != nil {
		return err
	}
	logger.Infow("local storage ready", "path", cfg.StoragePath)

	hub := broadcast.NewHub()

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		bridge := broadcast.NewRedisBridge(rdb, broadcast.DefaultChannel, hub, logger.Named("bridge"))
		if err := bridge.Start(ctx); err != nil {
			return err
		}
		logger.Infow("change bridge connected", "channel", broadcast.DefaultChannel)
	}

	// other processes sharing the same database file show up as version bumps
	watcher := storage.NewWatcher(store, cfg.WatchInterval, func(key string) {
		if topic, ok := topicForKey[key]; ok {
			hub.Inject(broadcast.Event{Topic: topic, Origin: "storage"})
		}
	}, logger.Named("watcher"))
	go watcher.Run(ctx)

	client := api.NewClient(cfg.APIURL, storage.TokenSource{Store: store},
		api.WithTimeout(cfg.APITimeout),
		api.WithLogger(logger.Named("api")),
	)

	sess, err := session.New(store, client, hub, logger.Named("session"))
	if err != nil {
		return err
	}
	defer sess.Close()
	go sess.Refresh(ctx)

	cartManager := cart.NewManager(store, hub, logger.Named("cart"))
	h := &handlers.Handler{
		Session:     sess,
		Cart:        cartManager,
		Marketplace: client,
		Checkout:    checkout.NewService(sess, cartManager, client, logger.Named("checkout")),
		Dashboard:   dashboard.NewService(sess, client, logger.Named("dashboard")),
		Hub:         hub,
		Logger:      logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger.Named("http")), middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"service":       "Food Marketplace Client",
			"api":           cfg.APIURL,
			"authenticated": sess.Authenticated(),
		})
	})
	routes.SetupRoutes(r, h)

	return serve(ctx, cfg.Addr, r, logger)
}

// startDevAPI runs the local marketplace stand-in next to the client.
func startDevAPI(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) error {
	db, err := config.OpenStore(":memory:")
	if err != nil {
		return err
	}
	srv, err := devapi.New(db, []byte(cfg.DevAPISecret), logger.Named("devapi"))
	if err != nil {
		return err
	}
	if err := srv.Seed(); err != nil {
		return err
	}
	go func() {
		if err := serve(ctx, cfg.DevAPIAddr, srv.Handler(), logger.Named("devapi")); err != nil {
			logger.Errorw("dev api stopped", "error", err)
		}
	}()
	return nil
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Minute,
	}

	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("server has started", "addr", addr)
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}
	logger.Infow("server has stopped", "addr", addr)
	return nil
}
