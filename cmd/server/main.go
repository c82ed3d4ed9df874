package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/messbari/mess-booking/internal/config"
	"github.com/messbari/mess-booking/internal/database"
	"github.com/messbari/mess-booking/internal/handler"
	"github.com/messbari/mess-booking/internal/middleware"
	"github.com/messbari/mess-booking/internal/payment"
	"github.com/messbari/mess-booking/internal/queue"
	"github.com/messbari/mess-booking/internal/repository"
	"github.com/messbari/mess-booking/internal/router"
	"github.com/messbari/mess-booking/internal/service/queue_publisher"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter; nil disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	groups := repository.NewMessGroupRepo(db)
	orders := repository.NewOrderRepo(db)
	transactions := repository.NewTransactionRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	messH := handler.NewMessGroupHandler(cfg, groups)
	bookingH := &handler.BookingHandler{
		Cfg:          cfg,
		Groups:       groups,
		Orders:       orders,
		Transactions: transactions,
		Checkout:     payment.NewStripeClient(cfg.StripeSecretKey),
		Publish:      queue_publisher.PublishBookingInitiated,
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublicMessRoutes(e, messH,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterOwnerMessRoutes(e, messH, cfg.JWTSecret)
	router.RegisterBookingRoutes(e, bookingH)

	// Audit consumer for booking.initiated events; runs its own
	// reconnect loop and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
