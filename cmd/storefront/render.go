package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/utafrali/shopease/internal/domain"
)

const titleWidth = 48

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	idStyle      = lipgloss.NewStyle().Width(6)
	titleStyle   = lipgloss.NewStyle().Width(titleWidth + 2)
	priceStyle   = lipgloss.NewStyle().Width(10).Align(lipgloss.Right).Foreground(lipgloss.Color("#8BC34A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
)

func renderProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no products found"))
		return
	}
	for _, p := range products {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(fmt.Sprintf("#%d", p.ID)),
			titleStyle.Render(truncate(p.Title, titleWidth)),
			priceStyle.Render("$"+p.Price.StringFixed(2)),
			"  ",
			mutedStyle.Render(p.Category),
		))
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d products", len(products))))
}

func renderProduct(w io.Writer, p domain.Product) {
	fmt.Fprintln(w, headingStyle.Render(p.Title))
	fmt.Fprintf(w, "price:    $%s\n", p.Price.StringFixed(2))
	fmt.Fprintf(w, "category: %s\n", p.Category)
	fmt.Fprintf(w, "rating:   %.1f (%d reviews)\n", p.Rating.Rate, p.Rating.Count)
	if p.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.NewStyle().Width(72).Render(p.Description))
	}
}

func renderCategories(w io.Writer, categories []domain.Category) {
	for _, c := range categories {
		fmt.Fprintf(w, "%s %s\n", c.Name, mutedStyle.Render("("+c.Slug+")"))
	}
}

func renderSession(w io.Writer, s domain.Session) {
	state := warnStyle.Render(string(s.State))
	if s.Authenticated {
		state = okStyle.Render(string(s.State))
	}
	fmt.Fprintf(w, "session: %s\n", state)
	if s.Username != "" {
		fmt.Fprintf(w, "user:    %s\n", s.Username)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
