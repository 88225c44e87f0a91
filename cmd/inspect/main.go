package main

import (
	"context"
	"flag"
	"fmt"
	"panel/internal/api"
	"panel/internal/app/config"
	"panel/internal/app/ds"
	"panel/internal/app/dsn"
	"panel/internal/app/repository"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Печатает паки и их файлы. С -option только паки этого варианта сервиса.
func main() {
	optionID := flag.Uint("option", 0, "service option ID")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to read config: ", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	store, err := api.NewContentStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to open content store: ", err)
	}
	m, closeCache, err := api.NewManifest(ctx, cfg, store)
	if err != nil {
		log.Fatal("Failed to create manifest: ", err)
	}
	defer closeCache()

	var packs []ds.Pack
	if *optionID != 0 {
		packs, err = repo.GetPacksByOption(ctx, uint(*optionID))
	} else {
		packs, err = repo.GetAllPacks(ctx)
	}
	if err != nil {
		log.Fatal("Failed to get packs: ", err)
	}

	fmt.Println("Packs in database:")
	for _, pack := range packs {
		fmt.Printf("ID: %d, UUID: %s, Name: %s, Version: %s, Option: %d\n",
			pack.ID, pack.UUID, pack.Name, pack.Version, pack.OptionID)

		files, err := m.List(ctx, pack.UUID)
		if err != nil {
			fmt.Printf("  files: %v\n", err)
			continue
		}
		for _, f := range files {
			fmt.Printf("  %s  %s  %s\n", f.Hash, f.Size, f.Name)
		}
	}
}
