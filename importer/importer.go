// Package importer bulk-loads cards into a set from a spreadsheet or CSV file.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/storage"
)

// Config describes where the card fields live in the file. Columns are
// spreadsheet letters; an empty column is not imported.
type Config struct {
	FilePath         string
	FrontColumn      string
	BackColumn       string
	CategoryColumn   string
	DifficultyColumn string
	TagsColumn       string
	SheetName        string // first sheet when empty
	StartRow         int    // 1-based
}

// DefaultConfig reads front, back, category, difficulty and tags from columns
// A to E, skipping one header row.
func DefaultConfig(path string) Config {
	return Config{
		FilePath:         path,
		FrontColumn:      "A",
		BackColumn:       "B",
		CategoryColumn:   "C",
		DifficultyColumn: "D",
		TagsColumn:       "E",
		StartRow:         2,
	}
}

type Result struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// CardAdder is the storage the importer writes to.
type CardAdder interface {
	AddFlashcard(ctx context.Context, setID string, in storage.NewCard) (models.Flashcard, error)
}

// Import adds one card per data row of the file to the set. Rows that fail
// validation are skipped and reported; storage failures abort the import.
func Import(ctx context.Context, repo CardAdder, setID string, cfg Config) (*Result, error) {
	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}
	cols, err := resolveColumns(cfg)
	if err != nil {
		return nil, err
	}
	start := cfg.StartRow
	if start < 1 {
		start = 1
	}

	result := &Result{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < start || blank(row) {
			continue
		}
		result.Processed++

		card := cols.card(row)
		if _, err := repo.AddFlashcard(ctx, setID, card); err != nil {
			if errors.Is(err, storage.ErrInvalidInput) {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				continue
			}
			return result, fmt.Errorf("row %d: %w", rowNum, err)
		}
		result.Created++
	}
	return result, nil
}

func readRows(cfg Config) ([][]string, error) {
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		return readCSV(cfg.FilePath)
	}
	return readExcel(cfg)
}

func readExcel(cfg Config) ([][]string, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", cfg.FilePath)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columns holds zero-based indexes, -1 for fields not imported.
type columns struct {
	front, back, category, difficulty, tags int
}

func resolveColumns(cfg Config) (columns, error) {
	var c columns
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{cfg.FrontColumn, &c.front},
		{cfg.BackColumn, &c.back},
		{cfg.CategoryColumn, &c.category},
		{cfg.DifficultyColumn, &c.difficulty},
		{cfg.TagsColumn, &c.tags},
	} {
		if f.name == "" {
			*f.dst = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(f.name)
		if err != nil {
			return columns{}, fmt.Errorf("column %q: %w", f.name, err)
		}
		*f.dst = n - 1
	}
	if c.front < 0 || c.back < 0 {
		return columns{}, errors.New("front and back columns are required")
	}
	return c, nil
}

func (c columns) card(row []string) storage.NewCard {
	return storage.NewCard{
		Front:      cell(row, c.front),
		Back:       cell(row, c.back),
		Category:   cell(row, c.category),
		Difficulty: models.Difficulty(strings.ToLower(cell(row, c.difficulty))),
		Tags:       storage.ParseTags(cell(row, c.tags)),
	}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
