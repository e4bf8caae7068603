package domain

import "fmt"

// Error types for consistent error handling across the console gateway.

// ErrBackend indicates the backend answered with a non-200 envelope code.
// Message is the user-facing text taken from the envelope (or a generic
// fallback when the envelope carried none).
type ErrBackend struct {
	Code    int
	Message string
}

func (e *ErrBackend) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgRequestFailed
}

// ErrTransport indicates the backend was not reached, or answered outside the
// envelope contract (non-2xx HTTP). Message is already mapped to one of the
// fixed human-readable texts; Status is 0 when no response arrived at all.
type ErrTransport struct {
	Status  int
	Message string
}

func (e *ErrTransport) Error() string {
	return e.Message
}

// ErrUnauthorized indicates a missing or rejected token (envelope code 401 or
// HTTP 401). The gateway handles session expiry centrally; callers only see
// the failed call.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgUnauthorized
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService wraps a failure while talking to the MJ backend.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// Fixed user-facing messages for the transport failure table. The texts match
// the ones the admin UI has always shown.
const (
	MsgUnreachable   = "连接服务器失败"
	MsgUnauthorized  = "未授权或token失效，请重新登录"
	MsgForbidden     = "拒绝访问"
	MsgNotFound      = "请求的资源不存在"
	MsgServerError   = "服务器内部错误"
	MsgRequestFailed = "请求失败"
)

// TransportMessage maps an HTTP status to its fixed user-facing message.
// Status 0 means no response was received at all.
func TransportMessage(status int) string {
	switch status {
	case 0:
		return MsgUnreachable
	case 401:
		return MsgUnauthorized
	case 403:
		return MsgForbidden
	case 404:
		return MsgNotFound
	case 500:
		return MsgServerError
	default:
		return fmt.Sprintf("%s: %d", MsgRequestFailed, status)
	}
}
