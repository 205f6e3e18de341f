package requestid

import "github.com/google/uuid"

const HeaderKey = "X-Request-Id"

// Gen returns a fresh correlation id. Client actions and server
// request logs share the same format so a dispatch can be traced
// end to end.
func Gen() string {
	return uuid.NewString()
}
