package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldTransactionID = "transaction_id"
	FieldCatCode       = "catcode"
	FieldPage          = "page"
	FieldPageSize      = "page_size"
	FieldTotalCount    = "total_count"
	FieldSplitCount    = "split_count"
	FieldAmountCents   = "amount_cents"
	FieldEndpoint      = "endpoint"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldState         = "state"
	FieldCount         = "count"
)

// Components defines standard component names
const (
	ComponentApp          = "app"
	ComponentHTTP         = "http"
	ComponentRemote       = "remote"
	ComponentStorage      = "storage"
	ComponentTransactions = "transactions"
	ComponentCategories   = "categories"
	ComponentCoordinator  = "coordinator"
	ComponentAMQP         = "amqp"
	ComponentCache        = "cache"
)

// Operations defines standard operation names
const (
	OpHydrate    = "hydrate"
	OpQuery      = "query"
	OpCategorize = "categorize"
	OpSplit      = "split"
	OpResolve    = "resolve"
	OpFetch      = "fetch"
	OpPersist    = "persist"
	OpPublish    = "publish"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
