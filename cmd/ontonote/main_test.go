package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/ontonote/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestDbFlags(t *testing.T) {
	flags := dbFlags()
	require.Len(t, flags, 1)

	dbFlag, ok := flags[0].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "db", dbFlag.Name)
	assert.Contains(t, dbFlag.Aliases, "d")
	assert.True(t, dbFlag.Required)
}

func TestEmbeddingFlags(t *testing.T) {
	flags := embeddingFlags()
	require.Len(t, flags, 2)

	hostFlag, ok := flags[0].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "embedding-host", hostFlag.Name)
	assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)

	modelFlag, ok := flags[1].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "embedding-model", modelFlag.Name)
	assert.Equal(t, "embeddinggemma", modelFlag.Value)
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("default log level accepted", func(t *testing.T) {
		err := newApp().Run([]string{"test"})
		require.NoError(t, err)
	})
}

func TestImportExportCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db")

	tree := ontology.NewTree()
	node, err := ontology.NewNode("#AI", "", nil)
	require.NoError(t, err)
	tree, err = ontology.AddNode(tree, node)
	require.NoError(t, err)

	text, err := ontology.ExportJSON(tree)
	require.NoError(t, err)

	docPath := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(docPath, []byte(text), 0o644))

	app := &cli.App{
		Name: "test",
		Commands: []*cli.Command{
			{
				Name:   "import",
				Action: importCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
				),
			},
			{
				Name:   "export",
				Action: exportCommand,
				Flags:  dbFlags(),
			},
		},
	}

	require.NoError(t, app.Run([]string{"test", "import", "--db", db, "--file", docPath}))
	require.NoError(t, app.Run([]string{"test", "export", "--db", db}))
}

func TestSearchCommand_InvalidStatus(t *testing.T) {
	app := &cli.App{
		Name: "test",
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{Name: "tag"},
					&cli.StringFlag{Name: "query"},
					&cli.StringFlag{Name: "status"},
				),
			},
		},
	}

	err := app.Run([]string{"test", "search", "--db", t.TempDir(), "--status", "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}
