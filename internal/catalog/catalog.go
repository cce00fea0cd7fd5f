// Package catalog holds the orderable menu and resolves free-text tokens
// against it.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tasty-bites/internal/database"
	"tasty-bites/internal/models"
)

// Catalog is an immutable, id-ordered view of the available menu.
type Catalog struct {
	items []models.MenuItem
}

// New creates a catalog from the given items, sorted by ascending id.
func New(items []models.MenuItem) *Catalog {
	sorted := make([]models.MenuItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Catalog{items: sorted}
}

// Load reads the available menu items from the database.
func Load(ctx context.Context, db *database.DB) (*Catalog, error) {
	rows, err := db.Query(ctx, database.GetAvailableMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Category,
			&item.Available,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}

	return New(items), nil
}

// Resolve matches a free-text token to an available menu item. A
// case-insensitive substring match on the name is tried first, in ascending
// id order, and the first hit wins; only when no name contains the token is
// it parsed as an integer id. Short generic tokens therefore match the
// lowest-id item containing them, which can be surprising but mirrors how
// customers type partial names.
func (c *Catalog) Resolve(token string) (models.MenuItem, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return models.MenuItem{}, false
	}

	for _, item := range c.items {
		if !item.Available {
			continue
		}
		if strings.Contains(strings.ToLower(item.Name), token) {
			return item, true
		}
	}

	id, err := strconv.Atoi(token)
	if err != nil {
		return models.MenuItem{}, false
	}
	for _, item := range c.items {
		if item.ID == id && item.Available {
			return item, true
		}
	}

	return models.MenuItem{}, false
}

// ByCategory groups the available items by category. Categories appear in
// first-seen order of the id-sorted item list, so the grouping is stable
// across calls.
func (c *Catalog) ByCategory() []models.MenuGroup {
	var groups []models.MenuGroup
	index := make(map[string]int)

	for _, item := range c.items {
		if !item.Available {
			continue
		}
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, models.MenuGroup{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}

// Items returns the available items in ascending id order.
func (c *Catalog) Items() []models.MenuItem {
	items := make([]models.MenuItem, 0, len(c.items))
	for _, item := range c.items {
		if item.Available {
			items = append(items, item)
		}
	}
	return items
}
