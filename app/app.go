package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/remerata/bookcloud/config"
	"github.com/remerata/bookcloud/internal/handler"
	"github.com/remerata/bookcloud/internal/repository"
	"github.com/remerata/bookcloud/internal/server"
	"github.com/remerata/bookcloud/internal/service"
	"github.com/remerata/bookcloud/migrations"
	"github.com/remerata/bookcloud/pkg/blob"
	"github.com/remerata/bookcloud/pkg/kafka"
	"github.com/remerata/bookcloud/pkg/logger"
	"github.com/remerata/bookcloud/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "bookcloud")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	svc := service.NewService(repo, producer, log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.ActivityConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}

	uploader := blob.NewClient(cfg.Blob)
	h := handler.New(cfg.Handler, svc, uploader, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	runCtx, stop := context.WithCancel(context.Background())
	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		return kafka.Consume(gCtx, consumer, handler.NewConsumer(svc.RecordActivity, log), kafka.LendingTopic)
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case <-gCtx.Done():
		log.Error("worker failed", zap.Error(gCtx.Err()))
	}
	stop()

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = g.Wait(); err != nil && err != context.Canceled {
		log.Error("shutdown", zap.Error(err))
	}
	if err = consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
