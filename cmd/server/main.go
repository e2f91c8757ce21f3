package main

import (
	"log"
	"time"

	"storefront-service/internal/config"
	httpctl "storefront-service/internal/controllers/http"
	"storefront-service/internal/infra"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/infra/storage"
	"storefront-service/internal/invoice"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/repository/redisstore"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.Load()

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	publisher, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	uploads, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to init upload store: %v", err)
	}

	mailer := infra.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		`"`+cfg.BusinessName+`" <`+cfg.SMTPUser+`>`)
	dispatcher := services.NewNotificationDispatcher(mailer, services.BusinessInfo{
		Name:            cfg.BusinessName,
		Email:           cfg.BusinessEmail,
		Phone:           cfg.BusinessPhone,
		Address:         cfg.BusinessAddress,
		TrackingBaseURL: cfg.TrackingBaseURL,
	})

	orderRepo := mysqlrepo.NewOrderRepository(db)
	hiddenStore := redisstore.NewHiddenOrderStore(redisClient)
	cartStore := redisstore.NewCartStore(redisClient)

	orderService := services.NewOrderService(orderRepo, hiddenStore, publisher, dispatcher)
	cartService := services.NewCartService(cartStore)

	renderer := invoice.NewRenderer(invoice.Business{
		Name:         cfg.BusinessName,
		Tagline:      cfg.BusinessTagline,
		AddressLines: []string{cfg.BusinessAddress},
		Email:        cfg.BusinessEmail,
		Phone:        cfg.BusinessPhone,
	})

	handler := httpctl.NewHandler(orderService, cartService, dispatcher, renderer, uploads)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Printf("Starting storefront service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
