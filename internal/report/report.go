package report

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/xuri/excelize/v2"
)

// ErrNoEquipment is returned when there is nothing to export.
var ErrNoEquipment = errors.New("failed to generate report, 0 equipment records were provided")

const (
	defaultSheet  = "Sheet1"
	maxSheetRunes = 31
	headerRow     = 1
	firstDataRow  = 2
)

var headers = []string{"ID", "Name", "Brand", "Model", "Price", "Currency", "Available", "Updated"}

// sheetNameSanitizer replaces the characters Excel rejects in sheet names.
var sheetNameSanitizer = strings.NewReplacer(
	":", " ", `\`, " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")",
)

// Generator holds the state for the Excel report generation process.
type Generator struct {
	file *excelize.File
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		file: excelize.NewFile(),
	}
}

// GenerateCatalogReport renders items into an Excel workbook with one sheet per
// category, sheets ordered by name and rows kept in the given order.
func GenerateCatalogReport(items []models.Equipment) (*bytes.Buffer, error) {
	var err error

	if len(items) == 0 {
		return nil, ErrNoEquipment
	}

	itemsBySheet := make(map[string][]models.Equipment)
	for _, item := range items {
		name := SheetName(item.Category)
		itemsBySheet[name] = append(itemsBySheet[name], item)
	}

	gen := NewGenerator()
	defer gen.file.Close()

	if err = gen.addSheets(itemsBySheet); err != nil {
		return nil, fmt.Errorf("failed to add sheets: %w", err)
	}

	if _, ok := itemsBySheet[defaultSheet]; !ok {
		if err = gen.file.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet '%s': %w", defaultSheet, err)
		}
	}
	gen.file.SetActiveSheet(0)

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write data from saved file: %w", err)
	}

	return buffer, nil
}

func (g *Generator) addSheets(itemsBySheet map[string][]models.Equipment) error {
	var err error

	names := make([]string, 0, len(itemsBySheet))
	for name := range itemsBySheet {
		names = append(names, name)
	}
	sort.Strings(names)

	for index, sheetName := range names {
		sheetItems := itemsBySheet[sheetName]

		if _, err = g.file.NewSheet(sheetName); err != nil {
			return fmt.Errorf("failed to generate new sheet '%s': %w", sheetName, err)
		}

		if err = g.setupSheet(sheetName, index+1, len(sheetItems)); err != nil {
			return fmt.Errorf("failed to setup sheet '%s': %w", sheetName, err)
		}

		for i, item := range sheetItems {
			if err = g.addRow(sheetName, i+firstDataRow, item); err != nil {
				return fmt.Errorf("failed to add row '%d': %w", i+firstDataRow, err)
			}
		}
	}
	return nil
}

// setupSheet writes the styled header row, sizes the columns and adds a table
// covering the header and rowCount data rows.
func (g *Generator) setupSheet(sheetName string, tableIndex, rowCount int) error {
	var err error

	headerStyle, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create new style: %w", err)
	}

	lastColumn, _ := excelize.ColumnNumberToName(len(headers))

	rowHeight := 20
	if err = g.file.SetRowHeight(sheetName, headerRow, float64(rowHeight)); err != nil {
		return fmt.Errorf("failed to set row height for headers: %w", err)
	}
	if err = g.file.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set sheet row for headers: %w", err)
	}
	if err = g.file.SetCellStyle(sheetName, "A1", lastColumn+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to set cell style for headers: %w", err)
	}

	widths := map[string]float64{
		"A": 8, "B": 40, "C": 20, "D": 25, "E": 14, "F": 10, "G": 12, "H": 18, //nolint:mnd // column widths
	}
	for col, width := range widths {
		if err = g.file.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err = g.file.AddTable(sheetName, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s%d", lastColumn, rowCount+headerRow),
		Name:      fmt.Sprintf("catalog_%d", tableIndex),
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}

	return nil
}

func (g *Generator) addRow(sheetName string, rowNum int, item models.Equipment) error {
	available := "no"
	if item.Availability {
		available = "yes"
	}

	rowData := []any{
		item.ID,
		item.Name,
		deref(item.Brand),
		deref(item.Model),
		item.Price,
		item.Currency,
		available,
		item.UpdatedAt.Format("02.01.2006 15:04"),
	}
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)

	if err := g.file.SetSheetRow(sheetName, cell, &rowData); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}

	return nil
}

// SheetName maps a category to a valid Excel sheet name of at most 31 runes.
func SheetName(category string) string {
	name := strings.TrimSpace(sheetNameSanitizer.Replace(category))
	if name == "" {
		name = "Other"
	}
	if utf8.RuneCountInString(name) > maxSheetRunes {
		runes := []rune(name)
		return strings.TrimSpace(string(runes[:maxSheetRunes]))
	}
	return name
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
