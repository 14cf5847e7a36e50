package container

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// SQLConfig describes the table a SQL container reads.
type SQLConfig struct {
	Namespace string `yaml:"namespace" toml:"namespace" validate:"required"`
	Table     string `yaml:"table" toml:"table" validate:"required,sqlident"`
	// KeyColumn is matched against the requested keys. It may be qualified
	// by the table name; it is selected even when Columns omits it.
	KeyColumn string `yaml:"key_column" toml:"key_column" validate:"required,sqlident"`
	// Columns to select; empty selects every column.
	Columns []string `yaml:"columns" toml:"columns" validate:"dive,sqlident"`
	// Multi collects every row sharing a key into a slice (one-to-many lookups).
	Multi bool `yaml:"multi" toml:"multi"`
}

var (
	sqlIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the validator shared by container configurations,
// with the "sqlident" rule registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
			return sqlIdent.MatchString(fl.Field().String())
		})
	})

	return validate
}

// QuestionPlaceholder renders "?" placeholders (SQLite, MySQL).
func QuestionPlaceholder(int) string { return "?" }

// DollarPlaceholder renders "$1", "$2", ... placeholders (PostgreSQL).
func DollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// WithPlaceholder sets how the SQL container renders the n-th (1-based) bind parameter.
func WithPlaceholder(p func(n int) string) Option {
	return func(o *options) {
		o.placeholder = p
	}
}

// SQL is a container reading rows of one table by key column, one
// IN query per Get. Rows are returned as map[string]any; with Multi,
// as []any of rows.
type SQL struct {
	db     *sql.DB
	cfg    SQLConfig
	prefix string
	// key is the result column holding the key; hidden when only selected for matching.
	key    string
	hidden bool
	opts   options
}

// NewSQL validates cfg and returns a container over db.
func NewSQL(db *sql.DB, cfg SQLConfig, opts ...Option) (*SQL, error) {
	if err := Validator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("sql container %q: %w", cfg.Namespace, err)
	}

	key := unqualified(cfg.KeyColumn)
	selected := slices.Clone(cfg.Columns)
	hidden := len(selected) > 0 && !slices.ContainsFunc(selected, func(c string) bool {
		return unqualified(c) == key
	})

	if hidden {
		selected = append(selected, cfg.KeyColumn)
	}

	columns := "*"
	if len(selected) > 0 {
		columns = strings.Join(selected, ", ")
	}

	return &SQL{
		db:     db,
		cfg:    cfg,
		prefix: fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (", columns, cfg.Table, cfg.KeyColumn),
		key:    key,
		hidden: hidden,
		opts:   newOptions(opts),
	}, nil
}

// unqualified strips a table qualifier: result columns carry bare names.
func unqualified(column string) string {
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		return column[i+1:]
	}

	return column
}

// Namespace implements Container.
func (s *SQL) Namespace() string { return s.cfg.Namespace }

// Get implements Container. Keys are matched back by their text form, so
// an int key finds a row whose key column scans as int64.
func (s *SQL) Get(ctx context.Context, keys []any) (map[any]any, error) {
	out := make(map[any]any, len(keys))

	requested := make(map[string][]any, len(keys))
	args := make([]any, 0, len(keys))

	for _, k := range keys {
		text, err := cast.ToStringE(k)
		if err != nil || !isComparable(k) {
			continue
		}

		if _, seen := requested[text]; !seen {
			args = append(args, k)
		}

		if !slices.Contains(requested[text], k) {
			requested[text] = append(requested[text], k)
		}
	}

	if len(args) == 0 {
		return out, nil
	}

	var query strings.Builder

	query.WriteString(s.prefix)

	for i := range args {
		if i > 0 {
			query.WriteString(", ")
		}

		query.WriteString(s.opts.placeholder(i + 1))
	}

	query.WriteString(")")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", s.cfg.Namespace, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", s.cfg.Namespace, err)
	}

	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, fmt.Errorf("container %q: %w", s.cfg.Namespace, err)
		}

		text, err := cast.ToStringE(row[s.key])
		if s.hidden {
			delete(row, s.key)
		}

		if err != nil {
			continue
		}

		for _, k := range requested[text] {
			if !s.cfg.Multi {
				out[k] = row

				continue
			}

			list, _ := out[k].([]any)
			out[k] = append(list, row)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("container %q: %w", s.cfg.Namespace, err)
	}

	s.opts.log.V(1).Info("sql lookup", "namespace", s.cfg.Namespace, "keys", len(args), "hits", len(out))

	return out, nil
}

func scanRow(rows *sql.Rows, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))

	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(columns))

	for i, c := range columns {
		if b, ok := values[i].([]byte); ok {
			row[c] = string(b)

			continue
		}

		row[c] = values[i]
	}

	return row, nil
}
