// build-dataset loads cached books from disk, extracts the requested
// feature groups chunk by chunk, and writes the labeled dataset to a
// CSV file and/or a SQLite database.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/cognicore/stylo/pkg/stylo"
	"github.com/cognicore/stylo/pkg/stylo/config"
	"github.com/cognicore/stylo/pkg/stylo/export"
	"github.com/cognicore/stylo/pkg/stylo/features"
)

func main() {
	var (
		configPath = flag.String("config", "configs/stylo.yaml", "Path to YAML configuration")
		inDir      = flag.String("in", "data/books", "Cache directory with fetched books")
		csvPath    = flag.String("csv", "data/features.csv", "CSV output path (empty to skip)")
		dbPath     = flag.String("sqlite", "", "SQLite output path (empty to skip)")
		groupList  = flag.String("groups", "", "Comma-separated feature groups: lexical, syntactic, stylometric, semantic (default: lexical, syntactic, stylometric)")
		noChunking = flag.Bool("no-chunking", false, "One row per whole document instead of per chunk")
		vocabSize  = flag.Int("vocab", 0, "Semantic vocabulary size (default 1000)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	groups, err := parseGroups(*groupList)
	if err != nil {
		log.Fatal("Invalid --groups: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := stylo.New(stylo.Options{Config: cfg})

	books, err := s.LoadBooks(ctx, *inDir)
	if err != nil {
		log.Fatal("Failed to load books: ", err)
	}
	if len(books) == 0 {
		log.Fatalf("No cached books under %s; run fetch-books first", *inDir)
	}
	log.Printf("Loaded %d books from %s", len(books), *inDir)

	dataset, err := s.BuildDataset(ctx, books, stylo.BuildOptions{
		Groups:          groups,
		DisableChunking: *noChunking,
		VocabularySize:  *vocabSize,
	})
	if err != nil {
		log.Fatal("Failed to build dataset: ", err)
	}
	log.Printf("Built dataset: %d rows, %d feature columns",
		dataset.Len(), len(dataset.FeatureColumns()))

	if *csvPath != "" {
		if err := export.WriteCSVFile(*csvPath, dataset); err != nil {
			log.Fatal("Failed to write CSV: ", err)
		}
		log.Printf("✓ Wrote %s", *csvPath)
	}

	if *dbPath != "" {
		sink, err := export.OpenSQLite(ctx, *dbPath)
		if err != nil {
			log.Fatal("Failed to open SQLite sink: ", err)
		}
		defer sink.Close()

		runID, err := sink.WriteRun(ctx, dataset)
		if err != nil {
			log.Fatal("Failed to write run: ", err)
		}
		log.Printf("✓ Stored run %s in %s", runID, *dbPath)
	}
}

func parseGroups(list string) ([]features.Group, error) {
	var groups []features.Group
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		g, err := features.ParseGroup(part)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}
