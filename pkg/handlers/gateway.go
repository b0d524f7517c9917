package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sqlbridge-io/sqlbridge/pkg/database"
	"github.com/sqlbridge-io/sqlbridge/pkg/gateway"
)

// defaultDataLimit is the row count for a table-data fetch when the caller
// does not supply one.
const defaultDataLimit = 100

// GatewayService is the façade consumed by the HTTP layer.
type GatewayService interface {
	Capabilities() gateway.Capabilities
	ListTables(ctx context.Context, databaseName string) (*database.ResultSet, error)
	TableSchema(ctx context.Context, databaseName, table string) (*database.ResultSet, error)
	TableStats(ctx context.Context, databaseName, table string) (*gateway.TableStats, error)
	TableData(ctx context.Context, databaseName, table, columns string, limit int) (*database.ResultSet, error)
	AdHocQuery(ctx context.Context, databaseName, sqlText string) (*gateway.QueryResult, error)
	ListProcedures(ctx context.Context, databaseName string) (*database.ResultSet, error)
	ProcedureInfo(ctx context.Context, databaseName, procedure string) (*database.ResultSet, error)
	ProcedureDefinition(ctx context.Context, databaseName, procedure string) (*database.ResultSet, error)
	ProcedureParameters(ctx context.Context, databaseName, procedure string) (*database.ResultSet, error)
	InvokeProcedure(ctx context.Context, databaseName, procedure string, params map[string]any) (*database.ResultSet, error)
}

// QueryRequest is the body of POST /api/databases/{db}/query.
type QueryRequest struct {
	SQL string `json:"sql"`
}

// InvokeRequest is the body of POST /api/databases/{db}/procedures/{proc}/invoke.
type InvokeRequest struct {
	Parameters map[string]any `json:"parameters"`
}

// GatewayHandler handles all database gateway endpoints.
type GatewayHandler struct {
	svc    GatewayService
	logger *zap.Logger
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(svc GatewayService, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the gateway handler's routes on the given mux.
func (h *GatewayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/databases", h.ListDatabases)

	// Table operations
	mux.HandleFunc("GET /api/databases/{db}/tables", h.ListTables)
	mux.HandleFunc("GET /api/databases/{db}/tables/{table}/schema", h.TableSchema)
	mux.HandleFunc("GET /api/databases/{db}/tables/{table}/stats", h.TableStats)
	mux.HandleFunc("GET /api/databases/{db}/tables/{table}/data", h.TableData)

	// Ad-hoc queries
	mux.HandleFunc("POST /api/databases/{db}/query", h.Query)

	// Stored procedures
	mux.HandleFunc("GET /api/databases/{db}/procedures", h.ListProcedures)
	mux.HandleFunc("GET /api/databases/{db}/procedures/{proc}", h.ProcedureInfo)
	mux.HandleFunc("GET /api/databases/{db}/procedures/{proc}/definition", h.ProcedureDefinition)
	mux.HandleFunc("GET /api/databases/{db}/procedures/{proc}/parameters", h.ProcedureParameters)
	mux.HandleFunc("POST /api/databases/{db}/procedures/{proc}/invoke", h.InvokeProcedure)
}

// ListDatabases handles GET /api/databases.
// Returns the configured whitelist and row ceiling.
func (h *GatewayHandler) ListDatabases(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.svc.Capabilities(), nil)
}

// ListTables handles GET /api/databases/{db}/tables.
func (h *GatewayHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListTables(r.Context(), r.PathValue("db"))
	h.respond(w, result, err)
}

// TableSchema handles GET /api/databases/{db}/tables/{table}/schema.
func (h *GatewayHandler) TableSchema(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.TableSchema(r.Context(), r.PathValue("db"), r.PathValue("table"))
	h.respond(w, result, err)
}

// TableStats handles GET /api/databases/{db}/tables/{table}/stats.
func (h *GatewayHandler) TableStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.TableStats(r.Context(), r.PathValue("db"), r.PathValue("table"))
	h.respond(w, stats, err)
}

// TableData handles GET /api/databases/{db}/tables/{table}/data.
// Accepts optional limit and columns query parameters; both are clamped
// or replaced downstream rather than rejected.
func (h *GatewayHandler) TableData(w http.ResponseWriter, r *http.Request) {
	limit := defaultDataLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	result, err := h.svc.TableData(r.Context(), r.PathValue("db"), r.PathValue("table"), r.URL.Query().Get("columns"), limit)
	h.respond(w, result, err)
}

// Query handles POST /api/databases/{db}/query.
func (h *GatewayHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a sql field")
		return
	}

	result, err := h.svc.AdHocQuery(r.Context(), r.PathValue("db"), req.SQL)
	h.respond(w, result, err)
}

// ListProcedures handles GET /api/databases/{db}/procedures.
func (h *GatewayHandler) ListProcedures(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProcedures(r.Context(), r.PathValue("db"))
	h.respond(w, result, err)
}

// ProcedureInfo handles GET /api/databases/{db}/procedures/{proc}.
func (h *GatewayHandler) ProcedureInfo(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ProcedureInfo(r.Context(), r.PathValue("db"), r.PathValue("proc"))
	h.respond(w, result, err)
}

// ProcedureDefinition handles GET /api/databases/{db}/procedures/{proc}/definition.
func (h *GatewayHandler) ProcedureDefinition(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ProcedureDefinition(r.Context(), r.PathValue("db"), r.PathValue("proc"))
	h.respond(w, result, err)
}

// ProcedureParameters handles GET /api/databases/{db}/procedures/{proc}/parameters.
func (h *GatewayHandler) ProcedureParameters(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ProcedureParameters(r.Context(), r.PathValue("db"), r.PathValue("proc"))
	h.respond(w, result, err)
}

// InvokeProcedure handles POST /api/databases/{db}/procedures/{proc}/invoke.
func (h *GatewayHandler) InvokeProcedure(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a parameters object")
		return
	}

	result, err := h.svc.InvokeProcedure(r.Context(), r.PathValue("db"), r.PathValue("proc"), req.Parameters)
	h.respond(w, result, err)
}

func (h *GatewayHandler) respond(w http.ResponseWriter, data any, err error) {
	if err != nil {
		if writeErr := WriteGatewayError(w, err); writeErr != nil {
			h.logger.Error("Failed to encode error response", zap.Error(writeErr))
		}
		return
	}
	if writeErr := WriteJSON(w, http.StatusOK, data); writeErr != nil {
		h.logger.Error("Failed to encode response", zap.Error(writeErr))
	}
}
