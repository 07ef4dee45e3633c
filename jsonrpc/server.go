package jsonrpc

import (
	"context"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"wipeforge/errors"
	"wipeforge/exception"
	"wipeforge/interfaces"
	"wipeforge/jsonx"
	"wipeforge/ledger"
	"wipeforge/logx"
)

// --- Error type used by handlers ---

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func toJRPC2Error(e *rpcError) error {
	if e == nil {
		return nil
	}
	var chainError errors.ChainError
	err := jsonx.Unmarshal([]byte(e.Message), &chainError)
	if err == nil && chainError.Code != "" {
		return jrpc2.Errorf(jrpc2.Code(e.Code), "%s", chainError.Message).WithData(chainError)
	}
	return jrpc2.Errorf(jrpc2.Code(e.Code), "%s", e.Message)
}

// --- Params/Results ---

type startWipeParams struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Method     string `json:"method"`
}

type startWipeResponse struct {
	LogID           string `json:"log_id"`
	Position        uint64 `json:"position"`
	Digest          string `json:"digest"`
	PrevDigest      string `json:"prev_digest"`
	Status          string `json:"status"`
	LogPath         string `json:"log_path,omitempty"`
	CertificatePath string `json:"certificate_path,omitempty"`
}

type validateResponse struct {
	Valid    bool             `json:"valid"`
	Checked  int              `json:"checked"`
	Failures []ledger.Failure `json:"failures,omitempty"`
}

type recordInfo struct {
	Position   uint64      `json:"position"`
	Timestamp  int64       `json:"timestamp"`
	Payload    interface{} `json:"payload"`
	PrevDigest string      `json:"prev_digest"`
	Digest     string      `json:"digest"`
}

type getRecordRequest struct {
	Position uint64 `json:"position"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ChainLength int    `json:"chain_length"`
}

func toRecordInfo(r *ledger.Record) *recordInfo {
	return &recordInfo{
		Position:   r.Position,
		Timestamp:  r.Timestamp,
		Payload:    r.Payload,
		PrevDigest: r.PrevDigest,
		Digest:     r.Digest,
	}
}

// --- Server ---

type Server struct {
	addr       string
	wipeSvc    interfaces.WipeService
	corsConfig CORSConfig
	httpServer *http.Server
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func NewServer(addr string, wipeSvc interfaces.WipeService) *Server {
	return &Server{
		addr:    addr,
		wipeSvc: wipeSvc,
	}
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(config CORSConfig) {
	s.corsConfig = config
}

func (s *Server) Start() {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		jh.ServeHTTP(w, r)
	})

	s.httpServer = &http.Server{Addr: s.addr, Handler: h}
	logx.Info("JSONRPC", "Serving JSON-RPC on ", s.addr)
	exception.SafeGo("jsonrpc-server", func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("JSONRPC", "Server stopped: ", err)
		}
	})
}

// Stop shuts the HTTP listener down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the bridged handler without binding a listener, for tests.
func (s *Server) Handler() http.Handler {
	return jhttp.NewBridge(s.buildMethodMap(), &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodWipeStart: handler.New(func(ctx context.Context, p startWipeParams) (*startWipeResponse, error) {
			res, err := s.rpcStartWipe(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodChainValidate: handler.New(func(ctx context.Context) (*validateResponse, error) {
			res, err := s.rpcValidate()
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodChainLatest: handler.New(func(ctx context.Context) (*recordInfo, error) {
			res, err := s.rpcLatest()
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodChainGetRecord: handler.New(func(ctx context.Context, p getRecordRequest) (*recordInfo, error) {
			res, err := s.rpcGetRecord(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodHealthCheck: handler.New(func(ctx context.Context) (*healthResponse, error) {
			return &healthResponse{
				Status:      "ok",
				ChainLength: len(s.wipeSvc.ChainRecords()),
			}, nil
		}),
	}
}

func (s *Server) rpcStartWipe(p startWipeParams) (*startWipeResponse, *rpcError) {
	if p.DeviceID == "" {
		return nil, &rpcError{Code: -32602, Message: errors.NewError(errors.ErrCodeInvalidRequest, "device_id is required").Error()}
	}
	if p.Method == "" {
		return nil, &rpcError{Code: -32602, Message: errors.NewError(errors.ErrCodeInvalidRequest, "method is required").Error()}
	}
	deviceName := p.DeviceName
	if deviceName == "" {
		deviceName = p.DeviceID + " Device"
	}

	receipt, err := s.wipeSvc.StartWipe(p.DeviceID, deviceName, p.Method)
	if err != nil {
		return nil, &rpcError{Code: -32000, Message: err.Error()}
	}
	return &startWipeResponse{
		LogID:           receipt.Log.LogID,
		Position:        receipt.Position,
		Digest:          receipt.Digest,
		PrevDigest:      receipt.PrevDigest,
		Status:          receipt.Log.Status,
		LogPath:         receipt.LogPath,
		CertificatePath: receipt.CertificatePath,
	}, nil
}

func (s *Server) rpcValidate() (*validateResponse, *rpcError) {
	report, err := s.wipeSvc.ValidateChain()
	if err != nil {
		return nil, &rpcError{Code: -32000, Message: err.Error()}
	}
	return &validateResponse{
		Valid:    report.Valid(),
		Checked:  report.Checked,
		Failures: report.Failures,
	}, nil
}

func (s *Server) rpcLatest() (*recordInfo, *rpcError) {
	record, err := s.wipeSvc.LatestRecord()
	if err != nil {
		return nil, &rpcError{Code: -32000, Message: err.Error()}
	}
	return toRecordInfo(record), nil
}

func (s *Server) rpcGetRecord(p getRecordRequest) (*recordInfo, *rpcError) {
	record, err := s.wipeSvc.RecordByPosition(p.Position)
	if err != nil {
		return nil, &rpcError{Code: -32001, Message: err.Error()}
	}
	return toRecordInfo(record), nil
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	for _, allowed := range s.corsConfig.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			break
		}
	}
	if len(s.corsConfig.AllowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", joinHeaderValues(s.corsConfig.AllowedMethods))
	}
	if len(s.corsConfig.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", joinHeaderValues(s.corsConfig.AllowedHeaders))
	}
}
