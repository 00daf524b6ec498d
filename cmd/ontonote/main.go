// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/ontonote"
	"github.com/poiesic/ontonote/ai"
	"github.com/poiesic/ontonote/ai/openai"
	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/ontology"
	"github.com/poiesic/ontonote/reindex"
	"github.com/poiesic/ontonote/search"
	"github.com/poiesic/ontonote/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ontonote",
		Usage: "Concept ontology and semantic note store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "concept",
				Usage: "Manage the concept ontology tree",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Add a concept node",
						Action: conceptAddCommand,
						Flags: append(dbFlags(),
							&cli.StringFlag{
								Name:     "label",
								Usage:    "Concept label (# is prepended if no marker present)",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "parent",
								Usage: "Parent node id (omit for a root concept)",
							},
						),
					},
					{
						Name:   "ls",
						Usage:  "List child concepts of a node (roots by default)",
						Action: conceptListCommand,
						Flags: append(dbFlags(),
							&cli.StringFlag{
								Name:  "parent",
								Usage: "Parent node id (omit for root concepts)",
							},
						),
					},
					{
						Name:   "rm",
						Usage:  "Remove a concept node, reattaching its children",
						Action: conceptRemoveCommand,
						Flags: append(dbFlags(),
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Node id to remove",
								Required: true,
							},
						),
					},
					{
						Name:   "rename",
						Usage:  "Rename a concept node",
						Action: conceptRenameCommand,
						Flags: append(dbFlags(),
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Node id to rename",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "label",
								Usage:    "New label",
								Required: true,
							},
						),
					},
					{
						Name:   "mv",
						Usage:  "Move a concept node to a new parent",
						Action: conceptMoveCommand,
						Flags: append(dbFlags(),
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Node id to move",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "parent",
								Usage: "New parent node id (omit to move to root level)",
							},
							&cli.IntFlag{
								Name:  "position",
								Usage: "Insert position among the new parent's children",
								Value: 0,
							},
						),
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export the ontology tree as JSON to stdout",
				Action: exportCommand,
				Flags:  dbFlags(),
			},
			{
				Name:   "import",
				Usage:  "Replace the ontology tree from a JSON document",
				Action: importCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON document (use - for stdin)",
						Required: true,
					},
				),
			},
			{
				Name:  "note",
				Usage: "Manage notes",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Add a note and embed it",
						Action: noteAddCommand,
						Flags: append(append(dbFlags(), embeddingFlags()...),
							&cli.StringFlag{
								Name:  "title",
								Usage: "Note title",
							},
							&cli.StringFlag{
								Name:  "content",
								Usage: "Note content",
							},
							&cli.StringSliceFlag{
								Name:  "tag",
								Usage: "Tag label to attach (repeatable)",
							},
							&cli.BoolFlag{
								Name:  "pin",
								Usage: "Pin the note",
							},
						),
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Filter notes by tag (with semantic expansion) and free text",
				Action: searchCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Tag label to filter by, expanded through the ontology",
					},
					&cli.StringFlag{
						Name:  "query",
						Usage: "Free-text query matched against title and content",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (active, archived)",
					},
				),
			},
			{
				Name:   "similar",
				Usage:  "Rank notes by embedding similarity to a query",
				Action: similarCommand,
				Flags: append(append(dbFlags(), embeddingFlags()...),
					&cli.StringFlag{
						Name:     "query",
						Usage:    "Query text to embed and rank against",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity to include",
						Value: -1,
					},
				),
			},
			{
				Name:   "related",
				Usage:  "Rank notes related to an existing note, with shared tags",
				Action: relatedCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Source note id",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Reembed all notes with new embeddings",
				Action: reindexCommand,
				Flags: append(append(dbFlags(), embeddingFlags()...),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of notes to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N notes",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func openNotebook(c *cli.Context) (*ontonote.Notebook, error) {
	opts := []ontonote.NotebookOption{}
	if c.IsSet("embedding-host") || c.IsSet("embedding-model") {
		config := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)
		opts = append(opts, ontonote.WithAIConfig(config))
	}

	nb, err := ontonote.NewNotebook(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open notebook: %w", err)
	}
	return nb, nil
}

func conceptAddCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	node, err := nb.AddConcept(ctx, c.String("label"), core.ID(c.String("parent")), nil)
	if err != nil {
		return fmt.Errorf("failed to add concept: %w", err)
	}

	fmt.Printf("%s\t%s\n", node.Id, node.Label)
	return nil
}

func conceptListCommand(c *cli.Context) error {
	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	for _, node := range nb.ChildConcepts(core.ID(c.String("parent"))) {
		fmt.Printf("%s\t%s\t(%d children)\n", node.Id, node.Label, len(node.ChildIds))
	}
	return nil
}

func conceptRemoveCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	if err := nb.RemoveConcept(ctx, core.ID(c.String("id"))); err != nil {
		return fmt.Errorf("failed to remove concept: %w", err)
	}
	return nil
}

func conceptRenameCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	if err := nb.RenameConcept(ctx, core.ID(c.String("id")), c.String("label")); err != nil {
		return fmt.Errorf("failed to rename concept: %w", err)
	}
	return nil
}

func conceptMoveCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	err = nb.MoveConcept(ctx, core.ID(c.String("id")), core.ID(c.String("parent")), c.Int("position"))
	if err != nil {
		return fmt.Errorf("failed to move concept: %w", err)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	text, err := nb.ExportOntology()
	if err != nil {
		return fmt.Errorf("failed to export ontology: %w", err)
	}

	if fp, err := ontology.Fingerprint(nb.Tree()); err != nil {
		slog.Error("error computing ontology fingerprint", "err", err)
	} else {
		slog.Info("exported ontology", "fingerprint", fp)
	}

	fmt.Println(text)
	return nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	var data []byte
	var err error
	if path := c.String("file"); path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	tree, err := nb.ImportOntology(ctx, string(data))
	if err != nil {
		return fmt.Errorf("failed to import ontology: %w", err)
	}

	if fp, err := ontology.Fingerprint(tree); err != nil {
		slog.Error("error computing ontology fingerprint", "err", err)
	} else {
		slog.Info("imported ontology", "nodes", len(tree.Nodes), "fingerprint", fp)
	}
	return nil
}

func noteAddCommand(c *cli.Context) error {
	ctx := context.Background()

	title := c.String("title")
	content := c.String("content")
	if title == "" && content == "" {
		return fmt.Errorf("at least one of --title and --content is required")
	}

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	tags := make([]string, 0, len(c.StringSlice("tag")))
	for _, tag := range c.StringSlice("tag") {
		tags = append(tags, core.NormalizeLabel(tag))
	}

	note := &core.Note{
		Title:   title,
		Content: content,
		Tags:    tags,
		Pinned:  c.Bool("pin"),
	}

	pipeline, err := nb.NewIndexPipeline()
	if err != nil {
		return fmt.Errorf("failed to create index pipeline: %w", err)
	}
	defer pipeline.Release()

	added, err := pipeline.Ingest(ctx, note)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	for _, n := range added {
		fmt.Printf("%s\t%s\n", n.Id, n.Title)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	filter := core.SearchFilter{
		Tag:   c.String("tag"),
		Query: c.String("query"),
	}

	switch strings.ToLower(c.String("status")) {
	case "":
	case "active":
		filter.Status = core.NoteStatusActive
	case "archived":
		filter.Status = core.NoteStatusArchived
	default:
		return fmt.Errorf("invalid status %q: must be active or archived", c.String("status"))
	}

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	engine, err := nb.NewSearchEngine()
	if err != nil {
		return fmt.Errorf("failed to create search engine: %w", err)
	}

	notes, err := engine.Search(ctx, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, note := range notes {
		pin := " "
		if note.Pinned {
			pin = "*"
		}
		fmt.Printf("%s %s\t%s\t%s\n", pin, note.Id, note.UpdatedAt.Format(time.RFC3339), note.Title)
	}
	return nil
}

func similarCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	engine, err := nb.NewSearchEngine(
		search.WithMinSimilarity(float32(c.Float64("min-similarity"))),
	)
	if err != nil {
		return fmt.Errorf("failed to create search engine: %w", err)
	}

	ranked, err := engine.Similar(ctx, c.String("query"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("similarity search failed: %w", err)
	}

	for _, hit := range ranked {
		fmt.Printf("%.4f\t%s\t%s\n", hit.Similarity, hit.Note.Id, hit.Note.Title)
	}
	return nil
}

func relatedCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	engine, err := nb.NewSearchEngine()
	if err != nil {
		return fmt.Errorf("failed to create search engine: %w", err)
	}

	related, err := engine.Related(ctx, core.ID(c.String("id")), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("related search failed: %w", err)
	}

	for _, hit := range related {
		fmt.Printf("%.4f\t%s\t%s\t%s\n", hit.Similarity, hit.Note.Id, hit.Note.Title,
			strings.Join(hit.SharedTags, ","))
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	// Open database
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewNoteRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	// Create AI config
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)

	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	// Create embedder
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	// Create reindexing config
	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	// Create reindexer
	reindexer := reindex.NewReindexer(repo, embedder, reindexConfig, os.Stderr)

	// Run reindexing
	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
