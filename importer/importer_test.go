package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/storage"
)

func newSet(t *testing.T) (*storage.Repository, string) {
	t.Helper()
	repo := storage.NewRepository(storage.NewMemoryStore(), logger.Nop())
	set, err := repo.CreateFlashcardSet(context.Background(), "Imported", "")
	require.NoError(t, err)
	return repo, set.ID
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "cards.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportWorkbook(t *testing.T) {
	ctx := context.Background()
	repo, setID := newSet(t)
	path := writeWorkbook(t, [][]interface{}{
		{"Front", "Back", "Category", "Difficulty", "Tags"},
		{"Hello", "Hola", "Greetings", "Easy", "basic, greeting"},
		{"", "no front", "", "", ""},
		{"Please", "Por favor", "Politeness", "hard", ""},
		{"Thanks", "Gracias", "", "extreme", ""},
	})

	res, err := Import(ctx, repo, setID, DefaultConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "Row 3")
	assert.Contains(t, res.Errors[1], "Row 5")

	set, ok := repo.FlashcardSet(ctx, setID)
	require.True(t, ok)
	require.Len(t, set.Cards, 2)
	assert.Equal(t, "Hola", set.Cards[0].Back)
	assert.Equal(t, models.DifficultyEasy, set.Cards[0].Difficulty)
	assert.Equal(t, []string{"basic", "greeting"}, set.Cards[0].Tags)
	assert.Equal(t, models.DifficultyHard, set.Cards[1].Difficulty)
}

func TestImportCSVWithCustomColumns(t *testing.T) {
	ctx := context.Background()
	repo, setID := newSet(t)
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte("Adiós,Goodbye\n,\nGracias,Thank you\n"), 0o644))

	cfg := Config{FilePath: path, FrontColumn: "B", BackColumn: "A", StartRow: 1}
	res, err := Import(ctx, repo, setID, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed, "blank rows are not counted")
	assert.Equal(t, 2, res.Created)
	assert.Empty(t, res.Errors)

	set, _ := repo.FlashcardSet(ctx, setID)
	assert.Equal(t, "Goodbye", set.Cards[0].Front)
	assert.Equal(t, "Adiós", set.Cards[0].Back)
	assert.Equal(t, models.DifficultyEasy, set.Cards[1].Difficulty)
}

func TestImportMissingSetAborts(t *testing.T) {
	repo, _ := newSet(t)
	path := writeWorkbook(t, [][]interface{}{{"h"}, {"Hello", "Hola"}})

	res, err := Import(context.Background(), repo, "missing", DefaultConfig(path))
	require.ErrorIs(t, err, storage.ErrSetNotFound)
	assert.Equal(t, 0, res.Created)
}

func TestImportConfigErrors(t *testing.T) {
	repo, setID := newSet(t)
	ctx := context.Background()

	_, err := Import(ctx, repo, setID, DefaultConfig(filepath.Join(t.TempDir(), "nope.xlsx")))
	assert.Error(t, err)

	path := writeWorkbook(t, [][]interface{}{{"a", "b"}})
	cfg := DefaultConfig(path)
	cfg.BackColumn = ""
	_, err = Import(ctx, repo, setID, cfg)
	assert.ErrorContains(t, err, "required")

	cfg = DefaultConfig(path)
	cfg.FrontColumn = "1A"
	_, err = Import(ctx, repo, setID, cfg)
	assert.Error(t, err)
}
