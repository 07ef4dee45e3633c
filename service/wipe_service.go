package service

import (
	"wipeforge/certificate"
	"wipeforge/ledger"
	"wipeforge/logx"
	"wipeforge/monitoring"
	"wipeforge/store"
	"wipeforge/types"
	"wipeforge/wipeengine"
)

// WipeService wires the wipe engine, the chain, the record store and the
// certificate writer together. The chain only ever sees opaque payloads;
// everything filesystem-shaped happens in the collaborators.
type WipeService struct {
	engine      *wipeengine.Engine
	chain       *ledger.Chain
	recordStore store.RecordStore
	certWriter  *certificate.Writer
}

func NewWipeService(engine *wipeengine.Engine, chain *ledger.Chain, recordStore store.RecordStore, certWriter *certificate.Writer) *WipeService {
	return &WipeService{
		engine:      engine,
		chain:       chain,
		recordStore: recordStore,
		certWriter:  certWriter,
	}
}

// StartWipe runs the simulation, appends the wipe log to the chain, mirrors
// the record to storage and issues the certificate.
func (s *WipeService) StartWipe(deviceID, deviceName, method string) (*types.WipeReceipt, error) {
	result, err := s.engine.Wipe(deviceID, deviceName, method)
	if err != nil {
		return nil, err
	}

	record, err := s.chain.Append(result.Log)
	if err != nil {
		return nil, err
	}
	monitoring.IncreaseAppendedRecords()
	monitoring.SetChainHeight(record.Position)
	monitoring.RecordCompletedWipe(method)

	if s.recordStore != nil {
		if err := s.recordStore.Store(record); err != nil {
			// The chain append already happened; storage is a mirror, so
			// report the failure without rolling anything back.
			logx.Error("SERVICE", "Failed to persist record ", record.Position, ": ", err)
		}
	}

	receipt := &types.WipeReceipt{
		Log:        result.Log,
		Position:   record.Position,
		Digest:     record.Digest,
		PrevDigest: record.PrevDigest,
		LogPath:    result.LogPath,
	}
	if s.certWriter != nil {
		_, certPath, err := s.certWriter.Write(record, result.Log)
		if err != nil {
			logx.Error("SERVICE", "Failed to write certificate: ", err)
		}
		receipt.CertificatePath = certPath
	}

	logx.Info("SERVICE", "Wipe recorded at position ", record.Position, " digest ", record.Digest)
	return receipt, nil
}

// ValidateChain runs a full validation pass over the chain.
func (s *WipeService) ValidateChain() (*ledger.Report, error) {
	report, err := s.chain.Validate()
	if err != nil {
		return nil, err
	}
	monitoring.IncreaseValidationRuns()
	if !report.Valid() {
		monitoring.IncreaseTamperDetections()
		logx.Warn("SERVICE", "Chain validation found ", len(report.Failures), " failures")
	}
	return report, nil
}

// LatestRecord returns the chain tail.
func (s *WipeService) LatestRecord() (*ledger.Record, error) {
	return s.chain.Latest()
}

// RecordByPosition returns the record at a position.
func (s *WipeService) RecordByPosition(position uint64) (*ledger.Record, error) {
	return s.chain.GetByPosition(position)
}

// ChainRecords returns a snapshot of the whole chain.
func (s *WipeService) ChainRecords() []*ledger.Record {
	return s.chain.Records()
}
