package main

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#6C7A80")
	colorError  = lipgloss.Color("#E74C3C")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorAccent)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

func renderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return mutedStyle.Render("(empty)")
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func renderCategories(list []domain.IngredientCategory) string {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{formatID(c.ID), c.TypeName, formatTime(c.CreatedAt), formatTime(c.UpdatedAt)})
	}
	return renderTable([]string{"ID", "Type name", "Created", "Updated"}, rows)
}

func renderIngredients(list []domain.Ingredient, categoryName func(domain.Ingredient) string) string {
	rows := make([][]string, 0, len(list))
	for _, ing := range list {
		name := categoryName(ing)
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{formatID(ing.ID), ing.IngredientName, formatID(ing.TypeID), name})
	}
	return renderTable([]string{"ID", "Ingredient", "Type ID", "Category"}, rows)
}

func renderDishCategories(list []domain.DishCategory) string {
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		rows = append(rows, []string{formatID(d.ID), d.Name})
	}
	return renderTable([]string{"ID", "Name"}, rows)
}
