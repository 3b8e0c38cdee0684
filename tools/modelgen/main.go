package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// tables backs the checked-in models under internal/adapter/repo/gorm/model.
var tables = []string{"worlds", "resources", "world_resources", "player_states"}

func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("TILEWORLD_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/query", "query output dir; models land in its sibling model dir")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or TILEWORLD_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:      out,
		ModelPkgPath: "model",
		Mode:         gen.WithoutContext,
	})
	g.UseDB(db)
	for _, table := range tables {
		g.GenerateModel(table)
	}
	g.Execute()

	fmt.Printf("generated %d gorm models next to %s\n", len(tables), out)
}
