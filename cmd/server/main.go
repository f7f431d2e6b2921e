package main

import (
	"log"
	"net/http"
	"os"

	"coinverse/internal/config"
	"coinverse/internal/serverapp"
)

func main() {
	rt, err := config.LoadRuntime()
	if err != nil {
		log.Fatalf("load runtime settings: %v", err)
	}

	cfg := &config.Config{Balance: config.Default()}
	if loaded, err := config.Load(rt.ConfigPath); err == nil {
		cfg = loaded
	} else if !os.IsNotExist(err) {
		log.Fatalf("load config: %v", err)
	}
	cfg.Balance = rt.BalanceFor(cfg.Balance)

	app, err := serverapp.New(serverapp.Options{
		Config:         cfg,
		DataDir:        rt.DataDir,
		CatalogBaseURL: rt.CatalogBaseURL,
		Logger:         log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}
	defer app.Close()

	// Arm the default profile's engine now so offline accrual is credited
	// at boot, not on the first request.
	app.Engine("default")

	log.Printf("listening on %s", rt.Addr)
	log.Fatal(http.ListenAndServe(rt.Addr, app.Handler()))
}
