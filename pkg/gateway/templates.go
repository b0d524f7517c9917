package gateway

// Fixed statement templates for structured operations. These are built
// from validated identifiers and driver-bound parameters only, never from
// caller-supplied SQL, so they bypass classification by construction.
const (
	stmtListTables = `
SET NOCOUNT ON;
SELECT
    SCHEMA_NAME(t.schema_id) AS table_schema,
    t.name AS table_name
FROM sys.tables t
WHERE t.is_ms_shipped = 0
ORDER BY table_schema, table_name
`

	stmtTableSchema = `
SET NOCOUNT ON;
SELECT
    c.name AS column_name,
    tp.name AS data_type,
    c.max_length,
    CASE WHEN c.is_nullable = 1 THEN 1 ELSE 0 END AS is_nullable,
    c.column_id AS ordinal_position
FROM sys.columns c
INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
WHERE c.object_id = OBJECT_ID(QUOTENAME(@table))
ORDER BY c.column_id
`

	stmtTableRowCount = `
SET NOCOUNT ON;
SELECT
    SUM(p.rows) AS row_count
FROM sys.tables t
INNER JOIN sys.partitions p ON t.object_id = p.object_id
WHERE p.index_id IN (0, 1)
  AND t.is_ms_shipped = 0
  AND t.name = @table
GROUP BY t.name
`

	stmtTableSizeEstimate = `
SET NOCOUNT ON;
SELECT
    SUM(a.total_pages) * 8 AS reserved_kb
FROM sys.tables t
INNER JOIN sys.partitions p ON t.object_id = p.object_id
INNER JOIN sys.allocation_units a ON p.partition_id = a.container_id
WHERE t.name = @table
GROUP BY t.name
`

	stmtListProcedures = `
SET NOCOUNT ON;
SELECT
    SCHEMA_NAME(p.schema_id) AS procedure_schema,
    p.name AS procedure_name
FROM sys.procedures p
WHERE p.is_ms_shipped = 0
ORDER BY procedure_schema, procedure_name
`

	stmtProcedureInfo = `
SET NOCOUNT ON;
SELECT
    SCHEMA_NAME(p.schema_id) AS procedure_schema,
    p.name AS procedure_name,
    p.create_date,
    p.modify_date
FROM sys.procedures p
WHERE p.name = @procedure
`

	stmtProcedureDefinition = `
SET NOCOUNT ON;
SELECT
    m.definition
FROM sys.sql_modules m
INNER JOIN sys.procedures p ON m.object_id = p.object_id
WHERE p.name = @procedure
`

	stmtProcedureParameters = `
SET NOCOUNT ON;
SELECT
    pa.name AS parameter_name,
    TYPE_NAME(pa.user_type_id) AS data_type,
    pa.max_length,
    CASE WHEN pa.is_output = 1 THEN 1 ELSE 0 END AS is_output,
    pa.parameter_id AS ordinal_position
FROM sys.parameters pa
INNER JOIN sys.procedures p ON pa.object_id = p.object_id
WHERE p.name = @procedure
ORDER BY pa.parameter_id
`
)
