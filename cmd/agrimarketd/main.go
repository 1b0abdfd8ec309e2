package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/agriconnect/agrimarket/config"
	"github.com/agriconnect/agrimarket/internal/app"
	"github.com/agriconnect/agrimarket/internal/marketapi"
	"github.com/agriconnect/agrimarket/internal/notify"
	"github.com/agriconnect/agrimarket/internal/webserver"
)

var (
	h        bool
	initdb   bool
	conffile string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.BoolVar(&initdb, "initdb", false, "drop and recreate the database schema")
	flag.StringVar(&conffile, "c", "agrimarket.yml", "config file")
}

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		return
	}

	cfg := config.LoadConfig(conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if initdb {
		application.InitDb()
		fmt.Println("database initialized")
		return
	}

	server := webserver.Init(application)
	marketapi.Register(application)

	notifier := notify.New(application.DB(), application, nil)
	if err := notifier.Subscribe(application.Bus()); err != nil {
		zap.L().Error("failed to subscribe notifier", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		zap.L().Error("web server stopped", zap.Error(err))
	}
}
