package jsonrpc

import "strings"

// JSON-RPC Method name constants
const (
	// Wipe methods
	MethodWipeStart = "wipe.start"

	// Chain methods
	MethodChainValidate  = "chain.validate"
	MethodChainLatest    = "chain.latest"
	MethodChainGetRecord = "chain.getrecord"

	// Health methods
	MethodHealthCheck = "health.check"
)

func joinHeaderValues(values []string) string {
	return strings.Join(values, ", ")
}
