package location

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no record exists for a key in the selected
// language table.
var ErrNotFound = errors.New("location not found")

// Resolver answers the two metadata questions the preview pipeline has:
// "is this key an alias?" and "what is the localized record for this key?".
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveAlias looks up query in the aliases table. Only rows whose
// canonical key differs from the alias itself count as redirects; a
// self-alias falls through to the direct lookup. Database errors are logged
// and treated as "no alias" so a flaky aliases table can never take down
// the main lookup path.
func (r *Resolver) ResolveAlias(ctx context.Context, query string) (*Alias, bool) {
	var rows []Alias
	err := r.db.WithContext(ctx).
		Where("alias = ? AND key <> alias", query).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		log.Printf("Error requesting alias for %q: %v", query, err)
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}
	return &rows[0], true
}

// FetchLocalized selects the record for id from the language-appropriate
// table. Zero rows is ErrNotFound; a database error is wrapped and
// propagated. The tables guarantee key uniqueness, so more than one row is
// a defensive path: the first row wins.
func (r *Resolver) FetchLocalized(ctx context.Context, id string, useEnglish bool) (*Location, error) {
	table := "de"
	if useEnglish {
		table = "en"
	}

	var rows []Location
	err := r.db.WithContext(ctx).
		Table(table).
		Where("key = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query %s for key %q: %w", table, id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}
