package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodcourt/internal/config"
	"foodcourt/internal/handler"
	"foodcourt/internal/infra/counter"
	"foodcourt/internal/infra/db"
	"foodcourt/internal/infra/event"
	infraRepo "foodcourt/internal/infra/repository"
	"foodcourt/internal/middleware"
	"foodcourt/internal/ratelimit"
	"foodcourt/internal/server"
	"foodcourt/internal/usecase"
	auth "foodcourt/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type eventPublisher interface {
	usecase.OrderEventPublisher
	Close() error
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", "foodcourt").Logger()
}

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := newLogger(cfg)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	//レート制限のカウンタ（Redisが無ければメモリ）
	var store ratelimit.CounterStore
	if cfg.RedisAddr != "" {
		rdb := counter.NewRedisClient(counter.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		rs := counter.NewRedisStore(rdb)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rs.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis not reachable yet")
		}
		cancel()
		store = rs
	} else {
		log.Info().Msg("REDIS_ADDR empty, using in-memory rate limit counters")
		store = counter.NewMemoryStore()
	}
	limiter := ratelimit.NewLimiter(store)

	//注文イベント（Kafkaが無ければ捨てる）
	var publisher eventPublisher = event.NoopPublisher{}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		publisher = event.NewKafkaPublisher(event.KafkaConfig{Brokers: brokers, Topic: cfg.KafkaOrderTopic}, log)
	}
	defer publisher.Close()

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	vendorRepo := infraRepo.NewVendorGormRepository(gormDB)
	menuRepo := infraRepo.NewMenuGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	rewardRepo := infraRepo.NewRewardGormRepository(gormDB)
	voucherRepo := infraRepo.NewVoucherGormRepository(gormDB)
	loyaltyRepo := infraRepo.NewLoyaltyGormRepository(gormDB)
	notificationRepo := infraRepo.NewNotificationGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	serviceFee := cfg.ServiceFeeAmount()

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, rtRepo, hasher, issuer, idGen, clock, cfg.RefreshTokenTTL)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, cfg.RefreshTokenTTL)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, issuer, idGen, clock, cfg.RefreshTokenTTL)
	logoutUC := auth.NewLogoutUsecase(userRepo, rtRepo, clock)
	meUC := auth.NewMeUsecase(userRepo)

	notifier := usecase.NewNotifier(notificationRepo, log)
	vouchers := usecase.NewVoucherEngine(voucherRepo, clock, cfg.VoucherValidity())
	menuUC := usecase.NewMenuUsecase(menuRepo, vendorRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, menuRepo, vouchers, serviceFee)
	orderUC := usecase.NewOrderUsecase(txm, cartRepo, menuRepo, vendorRepo, vouchers, notifier, publisher, idGen, clock, serviceFee, log)
	vendorOrderUC := usecase.NewVendorOrderUsecase(txm, vendorRepo, notifier, publisher, clock, log)
	rewardUC := usecase.NewRewardUsecase(txm, rewardRepo, vouchers, idGen, clock)
	loyaltyUC := usecase.NewLoyaltyUsecase(loyaltyRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, clock)

	//Handler生成
	guards := handler.Guards{
		Auth: []echo.MiddlewareFunc{
			middleware.AuthJWT(issuer),
			middleware.TokenVersionGuard(userRepo),
		},
		OptionalAuth: middleware.OptionalAuthJWT(issuer),
		Limit: func(a ratelimit.Action) echo.MiddlewareFunc {
			return middleware.RateLimit(limiter, a, log)
		},
	}

	e := server.New(log, server.Options{Debug: cfg.AppDebug})
	server.RegisterRoutes(e, guards,
		handler.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, meUC, log),
		handler.NewMenuHandler(menuUC),
		handler.NewCartHandler(cartUC),
		handler.NewOrderHandler(orderUC),
		handler.NewVendorOrderHandler(vendorOrderUC),
		handler.NewRewardHandler(rewardUC, vouchers, loyaltyUC),
		handler.NewNotificationHandler(notificationUC),
	)

	//Server起動（SIGINT/SIGTERMで止める）
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.GoEnv).Msg("server starting")
		return server.Start(e, cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return server.Shutdown(e, 10*time.Second)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}
