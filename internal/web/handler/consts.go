package handler

const (
	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// RouterIDPath is the single-record path inside a route group.
	RouterIDPath = "/:id"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// MsgInvalidBody is returned when the request body cannot be parsed.
	MsgInvalidBody = "corpo da requisição inválido"

	// MsgInvalidID is returned when the :id route param is not numeric.
	MsgInvalidID = "identificador inválido"

	// MsgNotFound is returned when the addressed record does not exist.
	MsgNotFound = "registro não encontrado"

	// MsgForbidden is returned on a scope or permission deny.
	MsgForbidden = "permissão negada"

	// MsgInternal is returned on unexpected storage failures.
	MsgInternal = "erro interno"
)
