// Command seed-menu loads menu items from a JSON file into the catalog table.
//
//	seed-menu -file menu.json
//
// The file holds an array of {"id", "itemName", "itemPrice"} objects. Items
// without an id get a fresh one.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"foodorder/pkg/catalog"
	catalogpg "foodorder/pkg/catalog/postgres"
	"foodorder/pkg/config"
	"foodorder/pkg/logger"
)

func main() {
	file := flag.String("file", "menu.json", "JSON file with menu items")
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	ctx := context.Background()
	log := logger.New(os.Stdout, logger.LevelInfo, "seed-menu", nil)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error(ctx, "load config", "error", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Error(ctx, "read menu file", "file", *file, "error", err)
		os.Exit(1)
	}
	var items []catalog.Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.Error(ctx, "decode menu file", "file", *file, "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Error(ctx, "db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	menu := catalogpg.New(db)
	if err := menu.Migrate(ctx); err != nil {
		log.Error(ctx, "migrate menu items", "error", err)
		os.Exit(1)
	}
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if err := menu.Put(ctx, it); err != nil {
			log.Error(ctx, "put menu item", "itemName", it.Name, "error", err)
			os.Exit(1)
		}
		log.Info(ctx, "menu item saved", "id", it.ID, "itemName", it.Name, "itemPrice", it.Price.String())
	}
}
