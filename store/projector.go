package store

import (
	"context"
	"fmt"

	"go.einride.tech/aip/ordering"

	"github.com/odvcencio/furry-grid/compare"
	"github.com/odvcencio/furry-grid/datagrid"
)

var columns = map[string]string{
	FieldID:         "id",
	FieldName:       "name",
	FieldRequiredBy: "required_by",
}

const matchClause = ` WHERE (? = '' OR grid_match(?, name || ' ' || required_by))`

// Projector runs filtering, sorting and paging as SQL. Request items are
// ignored; the table is the source of truth.
func (s *SQLite) Projector() datagrid.Projector[Item] {
	return datagrid.ProjectorFunc[Item](s.project)
}

func (s *SQLite) project(ctx context.Context, req datagrid.Request[Item]) (datagrid.Result[Item], error) {
	if err := ctx.Err(); err != nil {
		return datagrid.Result[Item]{}, err
	}
	if s == nil || s.sqlDB == nil {
		return datagrid.Result[Item]{}, ErrNotConfigured
	}
	pattern := ""
	if req.Matcher != nil {
		pattern = req.Matcher.String()
	}

	var count int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`+matchClause, pattern, pattern).Scan(&count)
	if err != nil {
		return datagrid.Result[Item]{}, fmt.Errorf("count projection: %w", err)
	}

	limit := int64(req.Limit)
	if limit <= 0 {
		limit = -1
	}
	offset := max(req.Offset, 0)
	query := `SELECT id, name, required_by FROM items` + matchClause +
		` ORDER BY ` + OrderClause(req.Sort) + ` LIMIT ? OFFSET ?`
	rows, err := s.sqlDB.QueryContext(ctx, query, pattern, pattern, limit, offset)
	if err != nil {
		return datagrid.Result[Item]{}, fmt.Errorf("query projection: %w", err)
	}
	items, err := scanItems(rows)
	if err != nil {
		return datagrid.Result[Item]{}, err
	}
	return datagrid.Result[Item]{Items: items, Count: count}, nil
}

// OrderClause renders the sort state as an ORDER BY list. Unknown fields and
// incomplete states fall back to id order, matching an unsorted grid.
func OrderClause(s compare.SortState) string {
	if s.IsUnsorted() {
		return "id"
	}
	orderBy := ordering.OrderBy{Fields: []ordering.Field{{
		Path: s.Field,
		Desc: s.Direction == compare.Descending,
	}}}
	if err := orderBy.ValidateForPaths(FieldID, FieldName, FieldRequiredBy); err != nil {
		return "id"
	}
	clause := ""
	for _, field := range orderBy.Fields {
		clause += columns[field.Path]
		if field.Desc {
			clause += " DESC"
		} else {
			clause += " ASC"
		}
		clause += ", "
	}
	return clause + "id"
}
