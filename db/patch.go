package db

import (
	"context"
	"fmt"
	"reflect"

	"github.com/Masterminds/squirrel"
)

// Partial updates are expressed as per-entity patch structs whose fields are
// all pointers; a nil field is "leave unchanged". The field set is closed, so
// unknown keys cannot reach the statement builder, and no patch struct
// carries audit fields: updated_at is stamped here on every call, whatever
// the caller supplied.

// buildPatch turns the non-nil fields of patch into an UPDATE statement for
// one row of table.
func buildPatch(table string, id int, patch any) (string, []any, error) {
	b := qb.Update(table).Set("updated_at", now())
	if patch != nil {
		v := reflect.ValueOf(patch)
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v = reflect.Value{}
				break
			}
			v = v.Elem()
		}
		if v.IsValid() {
			t := v.Type()
			for i := 0; i < t.NumField(); i++ {
				f := v.Field(i)
				if f.Kind() != reflect.Pointer || f.IsNil() {
					continue
				}
				b = b.Set(columnName(t.Field(i).Name), f.Elem().Interface())
			}
		}
	}
	query, args, err := b.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building update for %s: %w", table, err)
	}
	return query, args, nil
}

// applyPatch executes the patch and reports whether a row matched.
func (s *Storage) applyPatch(ctx context.Context, table string, id int, patch any) (bool, error) {
	query, args, err := buildPatch(table, id, patch)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
