package catalog

// Every catalog query returns eight text columns in this order: schema,
// table, column, data type, primary key marker, referenced schema,
// referenced table, referenced column. The last four are NULL when not
// applicable. The primary key marker is "PRI" for primary key columns;
// MySQL also reports its other COLUMN_KEY values ("UNI", "MUL").

const postgreSQLQuery = `SELECT
    c.table_schema::text, c.table_name::text, c.column_name::text, c.data_type::text,
    CASE WHEN pk.column_name IS NOT NULL THEN 'PRI' END AS primary_key,
    fk.foreign_table_schema, fk.foreign_table_name, fk.foreign_column_name
FROM information_schema.columns AS c
LEFT JOIN (
    SELECT DISTINCT kcu.table_schema, kcu.table_name, kcu.column_name
    FROM information_schema.table_constraints AS tc
    JOIN information_schema.key_column_usage AS kcu
        ON tc.constraint_name = kcu.constraint_name
        AND tc.table_schema = kcu.table_schema
        AND tc.table_name = kcu.table_name
    WHERE tc.constraint_type = 'PRIMARY KEY'
) AS pk
    ON pk.table_schema = c.table_schema
    AND pk.table_name = c.table_name
    AND pk.column_name = c.column_name
LEFT JOIN (
    SELECT
        ns.nspname::text AS table_schema,
        cl.relname::text AS table_name,
        att.attname::text AS column_name,
        fns.nspname::text AS foreign_table_schema,
        fcl.relname::text AS foreign_table_name,
        fatt.attname::text AS foreign_column_name
    FROM pg_catalog.pg_constraint AS con
    CROSS JOIN LATERAL unnest(con.conkey, con.confkey) AS k(attnum, foreign_attnum)
    JOIN pg_catalog.pg_class AS cl ON cl.oid = con.conrelid
    JOIN pg_catalog.pg_namespace AS ns ON ns.oid = cl.relnamespace
    JOIN pg_catalog.pg_attribute AS att
        ON att.attrelid = con.conrelid AND att.attnum = k.attnum
    JOIN pg_catalog.pg_class AS fcl ON fcl.oid = con.confrelid
    JOIN pg_catalog.pg_namespace AS fns ON fns.oid = fcl.relnamespace
    JOIN pg_catalog.pg_attribute AS fatt
        ON fatt.attrelid = con.confrelid AND fatt.attnum = k.foreign_attnum
    WHERE con.contype = 'f'
) AS fk
    ON fk.table_schema = c.table_schema::text
    AND fk.table_name = c.table_name::text
    AND fk.column_name = c.column_name::text
WHERE c.table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY c.table_schema, c.table_name, c.ordinal_position`

const mySQLQuery = `SELECT
    c.TABLE_SCHEMA, c.TABLE_NAME, c.COLUMN_NAME, c.COLUMN_TYPE,
    NULLIF(c.COLUMN_KEY, '') AS primary_key,
    k.REFERENCED_TABLE_SCHEMA, k.REFERENCED_TABLE_NAME, k.REFERENCED_COLUMN_NAME
FROM INFORMATION_SCHEMA.COLUMNS AS c
LEFT JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE AS k
    ON c.TABLE_SCHEMA = k.TABLE_SCHEMA
    AND c.TABLE_NAME = k.TABLE_NAME
    AND c.COLUMN_NAME = k.COLUMN_NAME
    AND k.REFERENCED_TABLE_NAME IS NOT NULL
WHERE c.TABLE_SCHEMA NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
ORDER BY c.TABLE_SCHEMA, c.TABLE_NAME, c.ORDINAL_POSITION`

const sqliteQuery = `SELECT
    'main', m.name, p.name, p.type,
    CASE WHEN p.pk > 0 THEN 'PRI' END AS primary_key,
    CASE WHEN f."table" IS NOT NULL THEN 'main' END AS foreign_table_schema,
    f."table", f."to"
FROM sqlite_master AS m
JOIN pragma_table_info(m.name) AS p
LEFT JOIN pragma_foreign_key_list(m.name) AS f ON f."from" = p.name
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
ORDER BY m.name, p.cid`

const duckDBQuery = `SELECT
    c.table_schema, c.table_name, c.column_name, c.data_type,
    CASE WHEN pk.column_name IS NOT NULL THEN 'PRI' END AS primary_key,
    fk.foreign_table_schema, fk.foreign_table_name, fk.foreign_column_name
FROM information_schema.columns AS c
LEFT JOIN (
    SELECT DISTINCT kcu.table_schema, kcu.table_name, kcu.column_name
    FROM information_schema.table_constraints AS tc
    JOIN information_schema.key_column_usage AS kcu
        ON tc.constraint_name = kcu.constraint_name
        AND tc.table_schema = kcu.table_schema
        AND tc.table_name = kcu.table_name
    WHERE tc.constraint_type = 'PRIMARY KEY'
) AS pk
    ON pk.table_schema = c.table_schema
    AND pk.table_name = c.table_name
    AND pk.column_name = c.column_name
LEFT JOIN (
    SELECT
        kcu.table_schema, kcu.table_name, kcu.column_name,
        ref.table_schema AS foreign_table_schema,
        ref.table_name AS foreign_table_name,
        ref.column_name AS foreign_column_name
    FROM information_schema.referential_constraints AS rc
    JOIN information_schema.key_column_usage AS kcu
        ON kcu.constraint_name = rc.constraint_name
        AND kcu.constraint_schema = rc.constraint_schema
    JOIN information_schema.key_column_usage AS ref
        ON ref.constraint_name = rc.unique_constraint_name
        AND ref.constraint_schema = rc.unique_constraint_schema
        AND ref.ordinal_position = kcu.ordinal_position
) AS fk
    ON fk.table_schema = c.table_schema
    AND fk.table_name = c.table_name
    AND fk.column_name = c.column_name
WHERE c.table_schema NOT IN ('information_schema', 'pg_catalog')
ORDER BY c.table_schema, c.table_name, c.ordinal_position`

var queries = map[Driver]string{
	PostgreSQL: postgreSQLQuery,
	MySQL:      mySQLQuery,
	SQLite:     sqliteQuery,
	DuckDB:     duckDBQuery,
}

// RegisterQuery adds or replaces the catalog query of a driver. The query
// must return the eight columns of the built-in queries: schema, table,
// column, type, key marker, then the referenced schema, table and column.
func RegisterQuery(driver Driver, query string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	queries[driver] = query
}

// MetadataQuery returns the catalog query of the driver.
func MetadataQuery(driver Driver) (string, error) {
	registryMu.RLock()
	query, ok := queries[driver]
	registryMu.RUnlock()
	if !ok {
		return "", &UnsupportedDriverError{Driver: string(driver), Available: Drivers()}
	}
	return query, nil
}
