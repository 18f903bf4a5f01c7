// Package storage is the relational data store behind the entity access layer.
// One SQL store serves all six tables, addressed by entity kind; queries are
// composed from the schema registry's column lists.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"skydesk/internal/database"
	"skydesk/internal/models"
	"skydesk/internal/schema"
)

// ErrNotFound сообщает, что запись с таким идентификатором отсутствует
var ErrNotFound = errors.New("record not found")

// Store - порт хранилища для слоя доступа к сущностям
type Store interface {
	// SelectAll возвращает все записи сущности, отсортированные по идентификатору по убыванию
	SelectAll(ctx context.Context, kind models.Kind) ([]models.Record, error)
	// Insert создает запись; идентификатор назначает база
	Insert(ctx context.Context, kind models.Kind, payload map[string]any) (models.Record, error)
	// Update частично обновляет запись по идентификатору
	Update(ctx context.Context, kind models.Kind, id int64, payload map[string]any) (models.Record, error)
	// Delete удаляет запись по идентификатору; ErrNotFound если ее уже нет
	Delete(ctx context.Context, kind models.Kind, id int64) error
}

// SQLStore реализует Store поверх PostgreSQL
type SQLStore struct {
	db *database.DB
}

func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) SelectAll(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	ent, ok := schema.ForKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC`,
		columnList(ent.Columns), quote(ent.Table), quote(ent.IDField))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		record, err := scanRecord(kind, rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *SQLStore) Insert(ctx context.Context, kind models.Kind, payload map[string]any) (models.Record, error) {
	ent, ok := schema.ForKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	var cols []string
	var args []any
	for _, col := range ent.InsertColumns() {
		if value, present := payload[col]; present {
			cols = append(cols, col)
			args = append(args, value)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("insert into %s: empty payload", ent.Table)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		quote(ent.Table), columnList(cols), strings.Join(placeholders, ", "), columnList(ent.Columns))

	return scanRecord(kind, s.db.QueryRowContext(ctx, query, args...))
}

func (s *SQLStore) Update(ctx context.Context, kind models.Kind, id int64, payload map[string]any) (models.Record, error) {
	ent, ok := schema.ForKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	var sets []string
	var args []any
	argIndex := 1
	for _, col := range ent.InsertColumns() {
		if value, present := payload[col]; present {
			sets = append(sets, fmt.Sprintf("%s = $%d", quote(col), argIndex))
			args = append(args, value)
			argIndex++
		}
	}
	if len(sets) == 0 {
		// ничего не меняется после отбрасывания идентификатора
		return s.selectByID(ctx, ent, kind, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		quote(ent.Table), strings.Join(sets, ", "), quote(ent.IDField), argIndex, columnList(ent.Columns))

	record, err := scanRecord(kind, s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return record, err
}

func (s *SQLStore) Delete(ctx context.Context, kind models.Kind, id int64) error {
	ent, ok := schema.ForKind(kind)
	if !ok {
		return fmt.Errorf("unknown entity kind %q", kind)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, quote(ent.Table), quote(ent.IDField))
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) selectByID(ctx context.Context, ent schema.Entity, kind models.Kind, id int64) (models.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		columnList(ent.Columns), quote(ent.Table), quote(ent.IDField))

	record, err := scanRecord(kind, s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return record, err
}

// quote экранирует идентификатор: колонки таблиц называются в CamelCase
func quote(ident string) string {
	return `"` + ident + `"`
}

func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}
