// Package gateway is the single choke point every request passes through:
// access-control gate, identifier and statement validation, row-cap
// rewriting, then exactly one execution against the database collaborator.
// No statement reaches the engine before all preceding gates pass.
package gateway

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/sqlbridge-io/sqlbridge/pkg/apperrors"
	"github.com/sqlbridge-io/sqlbridge/pkg/database"
	"github.com/sqlbridge-io/sqlbridge/pkg/logging"
	"github.com/sqlbridge-io/sqlbridge/pkg/sqlguard"
)

// Client is the database collaborator consumed by the service. It owns
// connection acquisition, the database-context switch, and timeouts.
type Client interface {
	RunStatement(ctx context.Context, databaseName, sqlText string, args ...any) (*database.ResultSet, error)
	RunStoredProcedure(ctx context.Context, databaseName, procedure string, params map[string]any) (*database.ResultSet, error)
}

// Service validates and executes gateway operations. Stateless per
// request; the whitelist is immutable and the client is safe for
// concurrent use, so requests need no coordination.
type Service struct {
	whitelist *sqlguard.Whitelist
	client    Client
	maxRows   int
	logger    *zap.Logger
}

// NewService builds the execution façade. maxRows is the result-row
// ceiling applied to ad-hoc queries. If logger is nil, a no-op logger is
// used.
func NewService(whitelist *sqlguard.Whitelist, client Client, maxRows int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		whitelist: whitelist,
		client:    client,
		maxRows:   maxRows,
		logger:    logger,
	}
}

// QueryResult is an ad-hoc query result plus whether the row cap was
// injected into the statement.
type QueryResult struct {
	*database.ResultSet
	Capped bool `json:"capped"`
}

// TableStats reports the estimated shape of a table. SizeKB is best
// effort: the reserved-space lookup can fail on restricted logins, in
// which case it is simply absent, never a request failure.
type TableStats struct {
	TableName string `json:"table_name"`
	RowCount  int64  `json:"row_count"`
	SizeKB    *int64 `json:"size_kb,omitempty"`
}

// Capabilities describes what the gateway is configured to serve.
type Capabilities struct {
	Databases []string `json:"databases"`
	MaxRows   int      `json:"max_rows"`
}

// Capabilities returns the configured whitelist and row ceiling. The
// returned slice is a copy; the whitelist itself is never mutated.
func (s *Service) Capabilities() Capabilities {
	return Capabilities{
		Databases: s.whitelist.Databases(),
		MaxRows:   s.maxRows,
	}
}

// authorize runs the access-control gate. It precedes every other check:
// an unauthorized database short-circuits before any SQL is inspected.
func (s *Service) authorize(databaseName string) error {
	if result := s.whitelist.AuthorizeDatabase(databaseName); !result.Valid {
		return apperrors.Rejection(apperrors.ErrUnauthorizedDatabase, result.Reason)
	}
	return nil
}

// validateIdentifier maps a failed grammar check to the taxonomy.
func validateIdentifier(kind sqlguard.IdentifierKind, raw string) error {
	if result := sqlguard.ValidateIdentifier(kind, raw); !result.Valid {
		return apperrors.Rejection(apperrors.ErrInvalidIdentifier, result.Reason)
	}
	return nil
}

// ListTables returns every user table in the target database.
func (s *Service) ListTables(ctx context.Context, databaseName string) (*database.ResultSet, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}

	result, err := s.client.RunStatement(ctx, databaseName, stmtListTables)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	return result, nil
}

// TableSchema returns column metadata for a table. A validated name that
// matches no table yields ErrNotFound.
func (s *Service) TableSchema(ctx context.Context, databaseName, table string) (*database.ResultSet, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}
	if err := validateIdentifier(sqlguard.IdentifierTable, table); err != nil {
		return nil, err
	}

	result, err := s.client.RunStatement(ctx, databaseName, stmtTableSchema, sql.Named("table", table))
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if result.RowCount == 0 {
		return nil, apperrors.Rejection(apperrors.ErrNotFound, fmt.Sprintf("table %q does not exist", table))
	}
	return result, nil
}

// TableStats returns the estimated row count for a table, plus a
// best-effort reserved-size estimate.
func (s *Service) TableStats(ctx context.Context, databaseName, table string) (*TableStats, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}
	if err := validateIdentifier(sqlguard.IdentifierTable, table); err != nil {
		return nil, err
	}

	result, err := s.client.RunStatement(ctx, databaseName, stmtTableRowCount, sql.Named("table", table))
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if result.RowCount == 0 {
		return nil, apperrors.Rejection(apperrors.ErrNotFound, fmt.Sprintf("table %q does not exist", table))
	}

	stats := &TableStats{
		TableName: table,
		RowCount:  scalarInt64(result, "row_count"),
	}

	// Reserved-space lookup can fail on logins without VIEW DATABASE STATE;
	// missing is acceptable.
	if sizeResult, sizeErr := s.client.RunStatement(ctx, databaseName, stmtTableSizeEstimate, sql.Named("table", table)); sizeErr == nil && sizeResult.RowCount > 0 {
		size := scalarInt64(sizeResult, "reserved_kb")
		stats.SizeKB = &size
	} else if sizeErr != nil {
		s.logger.Debug("Table size estimate unavailable",
			zap.String("database", databaseName),
			zap.String("table", table),
			zap.String("error", logging.SanitizeError(sizeErr)))
	}

	return stats, nil
}

// TableData fetches a bounded sample of rows from a table. The statement
// is constructed entirely from validated inputs; the caller's projection
// is used verbatim only when it passes the restrictive character class.
func (s *Service) TableData(ctx context.Context, databaseName, table, columns string, limit int) (*database.ResultSet, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}
	if err := validateIdentifier(sqlguard.IdentifierTable, table); err != nil {
		return nil, err
	}

	stmt := sqlguard.BuildTopQuery(table, columns, limit)

	result, err := s.client.RunStatement(ctx, databaseName, stmt)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	return result, nil
}

// AdHocQuery classifies, row-caps, and executes a caller-supplied SELECT.
func (s *Service) AdHocQuery(ctx context.Context, databaseName, sqlText string) (*QueryResult, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}

	if result := sqlguard.Classify(sqlText); !result.Valid {
		s.logger.Debug("Rejected ad-hoc statement",
			zap.String("database", databaseName),
			zap.String("reason", result.Reason),
			zap.String("statement", logging.SanitizeStatement(sqlText)))
		return nil, apperrors.Rejection(apperrors.ErrInvalidStatement, result.Reason)
	}

	stmt, capped := sqlguard.CapRowCount(sqlText, s.maxRows)

	result, err := s.client.RunStatement(ctx, databaseName, stmt)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}

	return &QueryResult{ResultSet: result, Capped: capped}, nil
}

// ListProcedures returns every user stored procedure in the database.
func (s *Service) ListProcedures(ctx context.Context, databaseName string) (*database.ResultSet, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}

	result, err := s.client.RunStatement(ctx, databaseName, stmtListProcedures)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	return result, nil
}

// ProcedureInfo returns catalog metadata for a stored procedure.
func (s *Service) ProcedureInfo(ctx context.Context, databaseName, procedure string) (*database.ResultSet, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}
	if err := validateIdentifier(sqlguard.IdentifierStoredProcedure, procedure); err != nil {
		return nil, err
	}

	result, err := s.client.RunStatement(ctx, databaseName, stmtProcedureInfo, sql.Named("procedure", procedure))
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if result.RowCount == 0 {
		return nil, apperrors.Rejection(apperrors.ErrNotFound, fmt.Sprintf("procedure %q does not exist", procedure))
	}
	return result, nil
}

// ProcedureDefinition returns the T-SQL body of a stored procedure.
func (s *Service) ProcedureDefinition(ctx context.Context, databaseName, procedure string) (*database.ResultSet, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}
	if err := validateIdentifier(sqlguard.IdentifierStoredProcedure, procedure); err != nil {
		return nil, err
	}

	result, err := s.client.RunStatement(ctx, databaseName, stmtProcedureDefinition, sql.Named("procedure", procedure))
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if result.RowCount == 0 {
		return nil, apperrors.Rejection(apperrors.ErrNotFound, fmt.Sprintf("procedure %q does not exist", procedure))
	}
	return result, nil
}

// ProcedureParameters returns the declared parameters of a stored
// procedure. A procedure with no parameters yields an empty result, which
// is why existence is checked first rather than inferred from zero rows.
func (s *Service) ProcedureParameters(ctx context.Context, databaseName, procedure string) (*database.ResultSet, error) {
	if _, err := s.ProcedureInfo(ctx, databaseName, procedure); err != nil {
		return nil, err
	}

	result, err := s.client.RunStatement(ctx, databaseName, stmtProcedureParameters, sql.Named("procedure", procedure))
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	return result, nil
}

// InvokeProcedure executes a stored procedure with caller-supplied bound
// parameters. Values are screened for injection patterns before the call
// and bound through the driver, never interpolated into SQL text.
func (s *Service) InvokeProcedure(ctx context.Context, databaseName, procedure string, params map[string]any) (*database.ResultSet, error) {
	if err := s.authorize(databaseName); err != nil {
		return nil, err
	}
	if err := validateIdentifier(sqlguard.IdentifierStoredProcedure, procedure); err != nil {
		return nil, err
	}

	if failures := sqlguard.CheckParameters(params); len(failures) > 0 {
		first := failures[0]
		return nil, apperrors.Rejection(apperrors.ErrInvalidStatement,
			fmt.Sprintf("parameter %q failed injection screening (fingerprint %s)", first.ParamName, first.Fingerprint))
	}

	result, err := s.client.RunStoredProcedure(ctx, databaseName, procedure, params)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	return result, nil
}

// scalarInt64 extracts a named int64 column from the first row, tolerating
// the driver's integer representations.
func scalarInt64(result *database.ResultSet, column string) int64 {
	if result.RowCount == 0 {
		return 0
	}
	switch v := result.Rows[0][column].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	default:
		return 0
	}
}
