package main

import (
	"context"
	"log"

	"github.com/blechwerk/zeichnungsarchiv/config"
	"github.com/blechwerk/zeichnungsarchiv/internal/bootstrap"
	"github.com/blechwerk/zeichnungsarchiv/internal/dinformats"
	"github.com/blechwerk/zeichnungsarchiv/internal/files"
	"github.com/blechwerk/zeichnungsarchiv/internal/maintenance"
	"github.com/blechwerk/zeichnungsarchiv/internal/projects"
	"github.com/blechwerk/zeichnungsarchiv/internal/storage/postgres"
	"github.com/blechwerk/zeichnungsarchiv/internal/titleblock"
	"github.com/blechwerk/zeichnungsarchiv/internal/titleblock/extract"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	store, err := files.NewStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	fileSvc := files.NewService(store, files.NewMetaRepo(rdb))
	titleblockRepo := titleblock.NewRepo(db)
	projectRepo := projects.NewRepo(db)
	projectSvc := projects.NewService(projectRepo, fileSvc, titleblockRepo)

	runner := extract.NewCommandRunner(cfg.Extractor.Bin, cfg.Extractor.Timeout)
	extractSvc := titleblock.NewService(titleblockRepo, projectRepo, runner,
		store.Dir(), cfg.Extractor.MaxConcurrent)

	scheduler := maintenance.NewScheduler(fileSvc)
	scheduler.Start()
	defer scheduler.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "zeichnungsarchiv",
		Version:     cfg.App.Version,
		Env:         cfg.App.Environment,
		CORSOrigins: cfg.Server.CORSOrigins,
		DB:          db,
		Redis:       rdb,
		Projects:    projectSvc,
		Files:       fileSvc,
		DinFormats:  dinformats.NewRepo(db),
		Titleblocks: titleblockRepo,
		Extractor:   extractSvc,
	})

	log.Printf("Backend running on http://localhost:%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
