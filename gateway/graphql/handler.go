package graphql

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
	"github.com/EstebanAdso/GraphQL-Workfront/metric"
)

// maxRequestBody bounds the size of a POST body
const maxRequestBody = 1 << 20

// Request is a GraphQL operation received over HTTP
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler executes GraphQL operations received over HTTP.
//
// POST requests carry a JSON Request body; GET requests carry query,
// operationName and variables (JSON) as URL parameters and cannot run
// mutations. Requests that cannot be read, parsed or validated get HTTP 400;
// executed operations get HTTP 200 whatever their field errors.
type Handler struct {
	schema  *graphql.Schema
	logger  *slog.Logger
	metrics *metric.Metrics
}

// NewHandler creates a GraphQL HTTP handler for schema
func NewHandler(schema *graphql.Schema, logger *slog.Logger, metrics *metric.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		schema:  schema,
		logger:  logger,
		metrics: metrics,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, status, err := readRequest(w, r)
	if err != nil {
		if status == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", "GET, POST")
		}
		h.write(w, r, status, errorResponse(err))
		return
	}

	if r.Method == http.MethodGet && isMutation(req) {
		w.Header().Set("Allow", "POST")
		h.write(w, r, http.StatusMethodNotAllowed,
			errorResponse(fmt.Errorf("mutations can only be sent with POST")))
		return
	}

	resp := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)

	status = http.StatusOK
	if len(resp.Errors) > 0 && len(resp.Data) == 0 {
		// Nothing was executed: the document failed to parse or validate
		status = http.StatusBadRequest
	}
	h.write(w, r, status, resp)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, resp *graphql.Response) {
	if h.metrics != nil {
		h.metrics.RecordGraphQLRequest(strconv.Itoa(status))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Warn("Failed to write GraphQL response",
			"error", err,
			"request_id", gateway.RequestID(r.Context()))
	}
}

func errorResponse(err error) *graphql.Response {
	return &graphql.Response{
		Errors: []*gqlerrors.QueryError{{Message: err.Error()}},
	}
}

// readRequest extracts the GraphQL request. On failure it also returns the
// HTTP status to answer with.
func readRequest(w http.ResponseWriter, r *http.Request) (*Request, int, error) {
	req := &Request{}

	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		req.Query = query.Get("query")
		req.OperationName = query.Get("operationName")
		if variables := query.Get("variables"); variables != "" {
			if err := json.Unmarshal([]byte(variables), &req.Variables); err != nil {
				return nil, http.StatusBadRequest, fmt.Errorf("variables are not valid JSON: %w", err)
			}
		}
	case http.MethodPost:
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			return nil, http.StatusUnsupportedMediaType,
				fmt.Errorf("unsupported Content-Type, use application/json for GraphQL requests")
		}
		body := http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := json.NewDecoder(body).Decode(req); err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("not a valid GraphQL request body: %w", err)
		}
	default:
		return nil, http.StatusMethodNotAllowed,
			fmt.Errorf("unsupported request method %s, use GET or POST for GraphQL requests", r.Method)
	}

	if strings.TrimSpace(req.Query) == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("GraphQL operations must contain a non-empty query")
	}
	return req, 0, nil
}

// isMutation reports whether the operation selected by req is a mutation.
// Documents that do not parse are left for the executor to reject.
func isMutation(req *Request) bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return false
	}

	var op *ast.OperationDefinition
	if req.OperationName != "" {
		op = doc.Operations.ForName(req.OperationName)
	} else if len(doc.Operations) == 1 {
		op = doc.Operations[0]
	}
	return op != nil && op.Operation == ast.Mutation
}

// wantsPlayground reports whether a request comes from a browser asking for a page
func wantsPlayground(r *http.Request) bool {
	return r.Method == http.MethodGet &&
		r.URL.Query().Get("query") == "" &&
		strings.Contains(r.Header.Get("Accept"), "text/html")
}
