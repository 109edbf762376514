package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/cognicore/hashmark/pkg/hashmark"
	"github.com/cognicore/hashmark/pkg/hashmark/config"
	"github.com/cognicore/hashmark/pkg/hashmark/source/fsdir"
	"github.com/cognicore/hashmark/pkg/hashmark/vocab"
	"github.com/cognicore/hashmark/pkg/hashmark/vocab/sqlite"
	"github.com/cognicore/hashmark/pkg/hashmark/vocab/yamlstore"
)

func main() {
	var (
		postsDir    = flag.String("posts", "", "Posts directory (required)")
		selector    = flag.String("glob", fsdir.DefaultSelector, "Document selector glob, relative to -posts")
		configPath  = flag.String("config", "", "Config file (optional, YAML)")
		vocabPath   = flag.String("vocab", "", "Vocabulary file (YAML)")
		vocabDBPath = flag.String("vocab-db", "", "Vocabulary database (SQLite), exclusive with -vocab")
		write       = flag.Bool("write", false, "Apply changes (default: dry run)")
		verbose     = flag.Bool("v", false, "Per-document detail")
	)
	flag.Parse()

	if *postsDir == "" {
		log.Fatal("--posts required")
	}
	if *vocabPath != "" && *vocabDBPath != "" {
		log.Fatal("--vocab and --vocab-db are mutually exclusive")
	}

	ctx := context.Background()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}
		cfg = loaded
	}

	var store vocab.Store
	switch {
	case *vocabDBPath != "":
		s, err := sqlite.Open(ctx, *vocabDBPath)
		if err != nil {
			log.Fatal("Failed to open vocabulary database: ", err)
		}
		store = s
	case *vocabPath != "":
		store = yamlstore.New(*vocabPath)
	}

	engine, err := hashmark.New(hashmark.Options{
		Config: cfg,
		Source: fsdir.New(*postsDir),
		Vocab:  store,
		Write:  *write,
	})
	if err != nil {
		log.Fatal("Failed to configure engine: ", err)
	}
	defer engine.Close()

	if !*write {
		log.Println("Dry run: no documents will be modified")
	}

	report, err := engine.Run(ctx, *selector)
	if err != nil {
		log.Fatal("Batch failed: ", err)
	}

	for _, e := range report.Errors {
		log.Printf("Document %s: %v", e.ID, e.Err)
	}
	if report.VocabErr != nil {
		log.Printf("Vocabulary store: %v", report.VocabErr)
	}

	for _, out := range report.Outcomes {
		if out.LowRichness {
			log.Printf("Low richness %s: existing=%v added=%v final=%v denied=%v suggestions=%v",
				out.ID, out.Existing, out.Added, out.Final, out.Denied, out.Suggestions)
		}
		if !*verbose {
			continue
		}
		status := "unchanged"
		if out.Changed {
			status = "changed"
		}
		log.Printf("%s: %s hashtags=[%s]", out.ID, status, strings.Join(out.Final, " "))
		for _, r := range out.Remaps {
			log.Printf("  remap %s -> %s (%.2f)", r.Candidate, r.Label, r.Score)
		}
	}

	log.Printf("Run %s: %d processed, %d changed, %d skipped, %d new labels",
		report.RunID, report.Processed, report.Changed, report.Skipped, len(report.NewLabels))
	if len(report.NewLabels) > 0 && *verbose {
		log.Printf("New labels: %s", strings.Join(report.NewLabels, " "))
	}
}
