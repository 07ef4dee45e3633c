package interfaces

import (
	"wipeforge/ledger"
	"wipeforge/types"
)

// WipeService is the surface the transports (jsonrpc, api, cmd) talk to.
type WipeService interface {
	// StartWipe simulates a wipe, appends its log to the chain and issues
	// the certificate.
	StartWipe(deviceID, deviceName, method string) (*types.WipeReceipt, error)

	// ValidateChain runs a full validation pass.
	ValidateChain() (*ledger.Report, error)

	// LatestRecord returns the chain tail.
	LatestRecord() (*ledger.Record, error)

	// RecordByPosition returns the record at a position.
	RecordByPosition(position uint64) (*ledger.Record, error)

	// ChainRecords returns a snapshot of the whole chain.
	ChainRecords() []*ledger.Record
}
