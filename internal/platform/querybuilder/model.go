package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// UpsertModel builds an insert from the model's db tags and upserts on key,
// overwriting every non-key column.
func UpsertModel(table string, model any, key []string, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}

	keySet := make(map[string]struct{}, len(key))
	for _, k := range key {
		keySet[k] = struct{}{}
	}
	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if _, isKey := keySet[col]; isKey || col == "id" || col == "created_at" {
			continue
		}
		updates = append(updates, col)
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		OnConflictUpdate(key, updates...).
		Suffix(suffix).
		ToSQL()
}

// Columns lists the db-tagged columns of a model, in field order.
func Columns(model any) []string {
	cols, _, err := columnsAndValuesFromModel(model)
	if err != nil {
		return nil
	}
	return cols
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
