package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldDriver     = "driver"
	FieldVehicle    = "vehicle"
	FieldSourceFile = "source_file"
	FieldSourceKind = "source_kind"
	FieldRowCount   = "row_count"
	FieldIssueCount = "issue_count"
	FieldRunID      = "run_id"
	FieldOutputDir  = "output_dir"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentCore    = "core"
	ComponentSource  = "source"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpFetch     = "fetch"
	OpNormalize = "normalize"
	OpPrepare   = "prepare"
	OpSummarize = "summarize"
	OpRender    = "render"
	OpArchive   = "archive"
	OpRefresh   = "refresh"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
