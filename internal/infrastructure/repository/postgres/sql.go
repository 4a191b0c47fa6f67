// Package postgres persists the normalized tables. Writes are batched
// upserts inside a single transaction so an ingest either lands a complete
// table or nothing.
package postgres

import (
	"database/sql"

	sonic "github.com/bytedance/sonic"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

func marshalJSONColumn(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return sonic.Marshal(v)
}

func unmarshalJSONColumn[T any](raw []byte) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func nullStringToPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func ptrToNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
