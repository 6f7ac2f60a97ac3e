package main

import (
	"context"
	"log"

	"case-advisor-be/internal/bootstrap"
	"case-advisor-be/internal/config"
	"case-advisor-be/internal/server"
	"case-advisor-be/internal/tracer"
	"case-advisor-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.SysLogger.Sync()

	// 4. Start Background Services
	go func() {
		if err := container.AuditService.Consume(context.Background()); err != nil {
			container.SysLogger.Error("Main", "Audit consumer failed to start", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	container.SysLogger.Info("Main", "Starting HTTP server", map[string]interface{}{"port": cfg.App.Port})
	log.Fatal(srv.Run())
}
