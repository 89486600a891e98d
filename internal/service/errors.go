package service

import "errors"

// ErrForbidden means the requester is authenticated but the
// authorization policy denied the action. Handlers map it to 403,
// distinct from the 401 returned for a missing or invalid token.
var ErrForbidden = errors.New("insufficient permissions")
