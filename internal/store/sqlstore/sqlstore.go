// Package sqlstore implements store.Collection on top of database/sql, for the
// Trino, Postgres and SQLite drivers.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/zdziszkee/swiftatlas/internal/database"
	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/store"
)

var columns = map[string]string{
	store.FieldID:               "id",
	store.FieldSwiftCode:        "swift_code",
	store.FieldSwiftCodePrefix8: "swift_code_prefix8",
	store.FieldCountryISO2:      "country_iso2",
	store.FieldBankName:         "bank_name",
	store.FieldIsHeadquarter:    "is_headquarter",
	store.FieldAddress:          "address",
	store.FieldCountryName:      "country_name",
}

const selectColumns = "id, swift_code, swift_code_prefix8, country_iso2, bank_name, is_headquarter, address, country_name"

// Collection is a SQL table of SWIFT code documents.
type Collection struct {
	db      *sql.DB
	table   string
	dialect string
}

// New creates a collection over the configured table.
func New(db *database.Database) *Collection {
	return NewWithDB(db.DB, db.Config)
}

// NewWithDB creates a collection over an existing *sql.DB.
func NewWithDB(db *sql.DB, config database.Config) *Collection {
	return &Collection{
		db:      db,
		table:   config.QualifiedTableName(),
		dialect: config.Type,
	}
}

func (c *Collection) FindOne(ctx context.Context, filter store.Filter) (*models.SwiftBank, error) {
	where, args, err := c.where(filter, 1)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1", selectColumns, c.table, where)
	bank, err := scanBank(c.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", c.dialect, err)
	}
	return bank, nil
}

func (c *Collection) InsertOne(ctx context.Context, bank *models.SwiftBank) (store.InsertReceipt, error) {
	id := uuid.NewString()

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", c.table, selectColumns, c.placeholders(1, 8))
	_, err := c.db.ExecContext(ctx, query, append([]any{id}, bankArgs(bank)...)...)
	if err != nil {
		return store.InsertReceipt{}, fmt.Errorf("%s insert failed: %w", c.dialect, err)
	}
	return store.InsertReceipt{InsertedID: id}, nil
}

func (c *Collection) Find(ctx context.Context, filter store.Filter) (store.Cursor, error) {
	where, args, err := c.where(filter, 1)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", selectColumns, c.table, where)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", c.dialect, err)
	}
	return &cursor{rows: rows, dialect: c.dialect}, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error) {
	if err := store.ValidatePatch(patch); err != nil {
		return store.UpdateReceipt{}, err
	}
	if len(patch) == 0 {
		return store.UpdateReceipt{}, errors.New("empty patch")
	}

	id, err := c.firstID(ctx, filter)
	if err != nil || id == "" {
		return store.UpdateReceipt{}, err
	}

	fields := sortedKeys(patch)
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, field := range fields {
		sets = append(sets, fmt.Sprintf("%s = %s", columns[field], c.placeholder(i+1)))
		args = append(args, patch[field])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", c.table, strings.Join(sets, ", "), c.placeholder(len(fields)+1))
	return c.execUpdate(ctx, query, args)
}

func (c *Collection) ReplaceOne(ctx context.Context, filter store.Filter, bank *models.SwiftBank) (store.UpdateReceipt, error) {
	id, err := c.firstID(ctx, filter)
	if err != nil || id == "" {
		return store.UpdateReceipt{}, err
	}

	cols := strings.Split(selectColumns, ", ")[1:]
	sets := make([]string, 0, len(cols))
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = %s", col, c.placeholder(i+1)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", c.table, strings.Join(sets, ", "), c.placeholder(len(cols)+1))
	return c.execUpdate(ctx, query, append(bankArgs(bank), id))
}

func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error) {
	id, err := c.firstID(ctx, filter)
	if err != nil || id == "" {
		return store.DeleteReceipt{}, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = %s", c.table, c.placeholder(1))
	result, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return store.DeleteReceipt{}, fmt.Errorf("%s delete failed: %w", c.dialect, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		// Not every driver reports affected rows; the row was just resolved.
		deleted = 1
	}
	return store.DeleteReceipt{DeletedCount: deleted}, nil
}

func (c *Collection) CountDocuments(ctx context.Context, filter store.Filter) (int64, error) {
	where, args, err := c.where(filter, 1)
	if err != nil {
		return 0, err
	}

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", c.table, where)
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s count failed: %w", c.dialect, err)
	}
	return count, nil
}

func (c *Collection) IdentityFilter(id string) (store.Filter, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return store.Filter{store.FieldID: parsed.String()}, nil
}

// firstID resolves the id of the first row matching filter, or "" if none.
func (c *Collection) firstID(ctx context.Context, filter store.Filter) (string, error) {
	where, args, err := c.where(filter, 1)
	if err != nil {
		return "", err
	}

	var id string
	query := fmt.Sprintf("SELECT id FROM %s%s LIMIT 1", c.table, where)
	err = c.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s check exists failed: %w", c.dialect, err)
	}
	return id, nil
}

func (c *Collection) execUpdate(ctx context.Context, query string, args []any) (store.UpdateReceipt, error) {
	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return store.UpdateReceipt{}, fmt.Errorf("%s update failed: %w", c.dialect, err)
	}
	modified, err := result.RowsAffected()
	if err != nil {
		modified = 1
	}
	return store.UpdateReceipt{MatchedCount: 1, ModifiedCount: modified}, nil
}

// where renders the filter as a WHERE clause with placeholders numbered from start.
func (c *Collection) where(filter store.Filter, start int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	fields := sortedKeys(filter)
	conds := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i, field := range fields {
		col, ok := columns[field]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", store.ErrUnknownField, field)
		}
		conds = append(conds, fmt.Sprintf("%s = %s", col, c.placeholder(start+i)))
		args = append(args, filter[field])
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (c *Collection) placeholder(n int) string {
	if c.dialect == database.TypePostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (c *Collection) placeholders(start, count int) string {
	ps := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ps = append(ps, c.placeholder(start+i))
	}
	return strings.Join(ps, ", ")
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func bankArgs(bank *models.SwiftBank) []any {
	return []any{
		bank.SwiftCode,
		bank.SwiftCodePrefix8,
		bank.CountryISO2,
		bank.BankName,
		bank.IsHeadquarter,
		bank.Address,
		bank.CountryName,
	}
}

func scanBank(scanner interface {
	Scan(dest ...any) error
}) (*models.SwiftBank, error) {
	var bank models.SwiftBank

	err := scanner.Scan(
		&bank.ID,
		&bank.SwiftCode,
		&bank.SwiftCodePrefix8,
		&bank.CountryISO2,
		&bank.BankName,
		&bank.IsHeadquarter,
		&bank.Address,
		&bank.CountryName,
	)
	if err != nil {
		return nil, err
	}

	return &bank, nil
}

type cursor struct {
	rows    *sql.Rows
	dialect string
}

func (c *cursor) Next(ctx context.Context) bool {
	return c.rows.Next()
}

func (c *cursor) Decode(bank *models.SwiftBank) error {
	decoded, err := scanBank(c.rows)
	if err != nil {
		return fmt.Errorf("%s scan failed: %w", c.dialect, err)
	}
	*bank = *decoded
	return nil
}

func (c *cursor) Err() error {
	return c.rows.Err()
}

func (c *cursor) Close(ctx context.Context) error {
	return c.rows.Close()
}
