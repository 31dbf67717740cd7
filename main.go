package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/api/handlers"
	"github.com/ceylonexplorer/rental-api/api/scheduler"
	"github.com/ceylonexplorer/rental-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil {
		log.Fatal(err)
	}

	s := scheduler.NewScheduler(a.Store.Bookings, a.Store.Fallback, a.Store, a.Notifier)
	s.Start()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("rental-api is up and running",
		"port", port,
		"url", baseURL,
	)

	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
	}()

	// let in-flight cron jobs finish before the pod goes away
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Stop()
}
