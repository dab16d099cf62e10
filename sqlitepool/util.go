package sqlitepool

import (
	"fmt"
	"strings"

	sqlite "github.com/tailscale/sqlitebind"
)

// DropAll deletes all the data from a database.
//
// The schemaName parameter follows the SQLite PRAGMA schema-name
// conventions: https://sqlite.org/pragma.html#syntax
func DropAll(c *sqlite.Conn, schemaName string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("sqlitepool.DropAll: %w", err)
		}
	}()
	if schemaName == "" {
		schemaName = "main"
	}

	var indexes, tables, triggers, views []string

	// Automatic indexes have no sql and go away with their table.
	// Internal tables such as sqlite_sequence cannot be dropped.
	rows, err := Query(c, fmt.Sprintf("SELECT name, type FROM %q.sqlite_schema WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite\\_%%' ESCAPE '\\'", schemaName))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name, sqlType string
		if err := rows.Scan(&name, &sqlType); err != nil {
			return err
		}
		switch sqlType {
		case "index":
			indexes = append(indexes, name)
		case "table":
			tables = append(tables, name)
		case "trigger":
			triggers = append(triggers, name)
		case "view":
			views = append(views, name)
		default:
			return fmt.Errorf("unknown sqlite schema type %q for %q", sqlType, name)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	drop := func(kind string, names []string) error {
		for _, name := range names {
			if err := c.ExecScript(fmt.Sprintf("DROP %s %q.%q;", kind, schemaName, name)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := drop("INDEX", indexes); err != nil {
		return err
	}
	if err := drop("TRIGGER", triggers); err != nil {
		return err
	}
	if err := drop("VIEW", views); err != nil {
		return err
	}
	return drop("TABLE", tables)
}

// CopyAll copies the contents of one database to another.
//
// Traditionally this is done in sqlite by closing the database and copying
// the file. However it can be useful to do it online: a single exclusive
// transaction can cross multiple databases, and if multiple processes are
// using a file, this lets one replace the database without first
// communicating with the other processes, asking them to close the DB first.
//
// The dstSchemaName and srcSchemaName parameters follow the SQLite PRAGMA
// schema-name conventions: https://sqlite.org/pragma.html#syntax
func CopyAll(c *sqlite.Conn, dstSchemaName, srcSchemaName string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("sqlitepool.CopyAll: %w", err)
		}
	}()
	if dstSchemaName == "" {
		dstSchemaName = "main"
	}
	if srcSchemaName == "" {
		srcSchemaName = "main"
	}
	if dstSchemaName == srcSchemaName {
		return fmt.Errorf("source matches destination: %q", srcSchemaName)
	}
	// Filter on sql to avoid auto indexes.
	// See https://www.sqlite.org/schematab.html for sqlite_schema docs.
	rows, err := Query(c, fmt.Sprintf("SELECT name, type, sql FROM %q.sqlite_schema WHERE sql != ''", srcSchemaName))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name, sqlType, sqlText string
		if err := rows.Scan(&name, &sqlType, &sqlText); err != nil {
			return err
		}
		// Regardless of the case or whitespace used in the original
		// create statement (or whether or not "if not exists" is used),
		// the SQL text in the sqlite_schema table always reads:
		// 	"CREATE (TABLE|VIEW|INDEX|TRIGGER) name".
		// We take advantage of that here to rewrite the create
		// statement for a different schema.
		var kind string
		switch sqlType {
		case "index":
			kind = "INDEX"
		case "table":
			kind = "TABLE"
		case "trigger":
			kind = "TRIGGER"
		case "view":
			kind = "VIEW"
		default:
			return fmt.Errorf("unknown sqlite schema type %q for %q", sqlType, name)
		}
		sqlText = strings.TrimPrefix(sqlText, "CREATE "+kind+" ")
		if err := c.ExecScript(fmt.Sprintf("CREATE %s %q.%s;", kind, dstSchemaName, sqlText)); err != nil {
			return err
		}
		if kind == "TABLE" {
			if err := c.ExecScript(fmt.Sprintf("INSERT INTO %q.%q SELECT * FROM %q.%q;", dstSchemaName, name, srcSchemaName, name)); err != nil {
				return err
			}
		}
	}
	return rows.Err()
}
