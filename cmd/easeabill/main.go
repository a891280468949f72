package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"

	"github.com/Ethan-Chiu/EaseABill/internal/clients/api"
	"github.com/Ethan-Chiu/EaseABill/internal/config"
	"github.com/Ethan-Chiu/EaseABill/internal/logger"
	"github.com/Ethan-Chiu/EaseABill/internal/model/commands"
	"github.com/Ethan-Chiu/EaseABill/internal/model/notifications"
	"github.com/Ethan-Chiu/EaseABill/internal/model/session"
	"github.com/Ethan-Chiu/EaseABill/internal/model/storage"
	"github.com/Ethan-Chiu/EaseABill/internal/model/tracker"
	"github.com/Ethan-Chiu/EaseABill/internal/model/uploads"
)

type kvStorage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

func main() {
	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		logger.Warn("no config file, using defaults", zap.Error(err))
		conf = config.Default()
	}

	closeTracer := initTracing()
	defer closeTracer()

	store, closeStore, err := newStorage(conf)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}
	defer closeStore()

	client := api.New(conf.Api())

	sess := session.New(client, store)
	trk := tracker.New(client, store)
	up := uploads.New(client)
	ins := notifications.New(client)

	sess.Initialize()
	if sess.State() == session.StateAuthenticated {
		trk.RestoreFromCache()
	}

	if err = ins.StartPolling(conf.App()); err != nil {
		logger.Warn("status polling disabled", zap.Error(err))
	}
	defer ins.StopPolling()

	dispatcher := commands.New(sess, trk, up, ins)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runLoop(ctx, dispatcher, ins)
}

func newStorage(conf *config.Service) (kvStorage, func(), error) {
	if conf.Storage().Driver() == config.DriverSQLite {
		s, err := storage.NewSQLiteStorage(conf.Storage())
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return storage.NewInMemStorage(), func() {}, nil
}

func initTracing() func() {
	cfg := jaegercfg.Configuration{
		ServiceName: "easeabill",
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
	}
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		return func() {}
	}
	opentracing.SetGlobalTracer(tracer)
	return func() { _ = closer.Close() }
}

func runLoop(ctx context.Context, dispatcher *commands.Service, ins *notifications.Service) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println("EaseABill. Type /help for commands, Ctrl+C to quit.")
	fmt.Print("> ")

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case alert := <-ins.Alerts():
			fmt.Printf("\n[%s] %s\n> ", alert.Status, alert.Message)
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				fmt.Print("> ")
				continue
			}
			resp, err := dispatcher.Handle(ctx, line)
			if err != nil {
				logger.Error("command failed", zap.Error(err))
			}
			if resp != "" {
				fmt.Println(resp)
			}
			fmt.Print("> ")
		}
	}
}
