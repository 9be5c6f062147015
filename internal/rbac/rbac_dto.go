package rbac

import "leaveflow/internal/domain"

// Aliased so callers inside the module can use the short names while the
// middleware keeps depending on the domain package only.
type (
	EnforceRequest  = domain.EnforceRequest
	EnforceResponse = domain.EnforceResponse
)
