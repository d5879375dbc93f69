package pfidb

// This module contains the key database handed
// to ParFlow: an ordered set of dotted keys with
// their values, serialized in the .pfidb format
// read by the solver at startup.

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Database is an insertion ordered map from
// dotted key names to values formatted as the
// solver expects them.
type Database struct {
	keys   []string
	values map[string]string
	frozen bool
}

// New returns an empty Database.
func New() *Database {
	return &Database{values: map[string]string{}}
}

// FormatValue converts a Go value to the textual
// form used in the database.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []string:
		return strings.Join(v, " ")
	case []interface{}:
		names := make([]string, len(v))
		for i, item := range v {
			names[i] = FormatValue(item)
		}
		return strings.Join(names, " ")
	default:
		return fmt.Sprint(v)
	}
}

// Set assigns `value` to `key`. A key already
// present keeps its position. Set panics if
// the database has been frozen.
func (db *Database) Set(key string, value interface{}) {
	if db.frozen {
		panic(fmt.Sprintf("pfidb: set `%s` on a frozen database", key))
	}
	if _, ok := db.values[key]; !ok {
		db.keys = append(db.keys, key)
	}
	db.values[key] = FormatValue(value)
}

// Setf assigns `value` to the key obtained
// formatting `keyFormat` with `args`.
func (db *Database) Setf(value interface{}, keyFormat string, args ...interface{}) {
	db.Set(fmt.Sprintf(keyFormat, args...), value)
}

// Freeze makes the database read only.
func (db *Database) Freeze() {
	db.frozen = true
}

// Frozen reports whether Freeze was called.
func (db *Database) Frozen() bool {
	return db.frozen
}

// Get returns the value of `key`.
func (db *Database) Get(key string) (string, bool) {
	v, ok := db.values[key]
	return v, ok
}

// Has reports whether `key` is set.
func (db *Database) Has(key string) bool {
	_, ok := db.values[key]
	return ok
}

// Names returns the whitespace separated names
// stored under `key`, as used by name list keys
// like `BCPressure.PatchNames`.
func (db *Database) Names(key string) []string {
	return strings.Fields(db.values[key])
}

// Keys returns all keys in insertion order.
func (db *Database) Keys() []string {
	res := make([]string, len(db.keys))
	copy(res, db.keys)
	return res
}

// Len returns the number of keys.
func (db *Database) Len() int {
	return len(db.keys)
}

// WriteTo writes the database in pfidb format:
// the key count, then for every key the length
// of the key, the key, the length of the value
// and the value, each on its own line.
func (db *Database) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64

	write := func(format string, args ...interface{}) error {
		n, err := fmt.Fprintf(bw, format, args...)
		total += int64(n)
		return err
	}

	if err := write("%d\n", len(db.keys)); err != nil {
		return total, err
	}
	for _, key := range db.keys {
		value := db.values[key]
		if err := write("%d\n%s\n%d\n%s\n", len(key), key, len(value), value); err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// Diff returns, in sorted order, the keys whose value
// differs between `db` and `other`, including the keys
// set in only one of them.
func (db *Database) Diff(other *Database) []string {
	var res []string
	for key, v := range db.values {
		if ov, ok := other.values[key]; !ok || ov != v {
			res = append(res, key)
		}
	}
	for key := range other.values {
		if _, ok := db.values[key]; !ok {
			res = append(res, key)
		}
	}
	sort.Strings(res)
	return res
}

// String returns the database in pfidb format.
func (db *Database) String() string {
	var b strings.Builder
	db.WriteTo(&b)
	return b.String()
}

// Parse reads a database in pfidb format.
func Parse(r io.Reader) (*Database, error) {
	br := bufio.NewReader(r)
	readLine := func() (string, error) {
		line, err := br.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return "", err
		}
		return strings.TrimSuffix(line, "\n"), nil
	}
	readInt := func(what string) (int, error) {
		line, err := readLine()
		if err != nil {
			return 0, fmt.Errorf("parse pfidb: reading %s: %w", what, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return 0, fmt.Errorf("parse pfidb: %s `%s` is not an integer: %w", what, line, err)
		}
		return n, nil
	}

	count, err := readInt("key count")
	if err != nil {
		return nil, err
	}

	db := New()
	for i := 0; i < count; i++ {
		if _, err := readInt("key length"); err != nil {
			return nil, err
		}
		key, err := readLine()
		if err != nil {
			return nil, fmt.Errorf("parse pfidb: reading key %d: %w", i, err)
		}
		if _, err := readInt("value length"); err != nil {
			return nil, err
		}
		value, err := readLine()
		if err != nil {
			return nil, fmt.Errorf("parse pfidb: reading value of `%s`: %w", key, err)
		}
		db.Set(key, value)
	}
	return db, nil
}
