package main // Entry point package

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-checks/internal/config" // Internal config loader
	"github.com/iliyamo/restaurant-checks/internal/handler"
	"github.com/iliyamo/restaurant-checks/internal/queue"
	"github.com/iliyamo/restaurant-checks/internal/router" // Internal router setup
	"github.com/iliyamo/restaurant-checks/internal/seed"
	"github.com/iliyamo/restaurant-checks/internal/service"
	"github.com/iliyamo/restaurant-checks/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load() // Load environment config
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
	}

	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		log.WithError(err).Fatal("cache config")
	}
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		log.WithError(err).Fatal("rate limit config")
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		log.WithError(err).Fatal("redis config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, seeder, err := store.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("open store")
	}
	if cfg.StoreDriver == config.DriverMemory {
		// an in-memory store starts empty; load the bundled fixtures
		fx, err := seed.LoadFixtures(seed.Defaults())
		if err == nil {
			err = seed.Run(ctx, seeder, fx, cfg.BcryptCost, log)
		}
		if err != nil {
			log.WithError(err).Fatal("seed memory store")
		}
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(cctx); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()

	rdb := config.NewRedisClient(redisCfg)
	if rdb == nil {
		log.WithField("addr", redisCfg.Addr).Warn("redis unavailable; cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	var events handler.EventPublisher
	if cfg.EventsEnabled {
		events = service.NewPublisher(cfg.RabbitURL, log)
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogPath: cfg.CheckEventsLog, Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("check consumer stopped")
			}
		}()
	}

	e := router.New(router.Deps{
		Config:    cfg,
		Store:     st,
		Events:    events,
		Redis:     rdb,
		Cache:     cacheCfg,
		RateLimit: rlCfg,
		Log:       log,
	})

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "driver": cfg.StoreDriver}).Info("listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
	log.Info("stopped")
}
