package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"wipeforge/errors"
	"wipeforge/exception"
	"wipeforge/interfaces"
	"wipeforge/jsonx"
	"wipeforge/logx"
	"wipeforge/monitoring"
	"wipeforge/ratelimit"
)

// APIServer is the REST surface mirroring the original dashboard routes:
// one-shot wipes, chain browsing and on-demand validation.
type APIServer struct {
	wipeSvc     interfaces.WipeService
	listenAddr  string
	httpServer  *http.Server
	wipeLimiter *ratelimit.RateLimiter
}

type startWipeRequest struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Method     string `json:"method"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewAPIServer(wipeSvc interfaces.WipeService, addr string) *APIServer {
	// Wipes are slow and append to the chain; cap them per client IP.
	wipeLimiter := ratelimit.NewRateLimiter(&ratelimit.Config{
		MaxRequests:     10,
		WindowSize:      time.Minute,
		CleanupInterval: 5 * time.Minute,
	})
	return &APIServer{wipeSvc: wipeSvc, listenAddr: addr, wipeLimiter: wipeLimiter}
}

// Router builds the route table; exposed for tests.
func (s *APIServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/chain", s.handleChain).Methods(http.MethodGet)
	r.HandleFunc("/chain/{position}", s.handleRecord).Methods(http.MethodGet)
	r.HandleFunc("/validate", s.handleValidate).Methods(http.MethodGet)
	r.HandleFunc("/start-wipe", s.handleStartWipe).Methods(http.MethodPost)
	return r
}

func (s *APIServer) Start() {
	router := s.Router()
	metricsMux := http.NewServeMux()
	monitoring.RegisterMetrics(metricsMux)
	router.PathPrefix("/metrics").Handler(metricsMux)

	s.httpServer = &http.Server{Addr: s.listenAddr, Handler: router}
	logx.Info("API", "Serving REST API on ", s.listenAddr)
	exception.SafeGo("api-server", func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("API", "Server stopped: ", err)
		}
	})
}

// Stop shuts the HTTP listener down.
func (s *APIServer) Stop(ctx context.Context) error {
	s.wipeLimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"chain_length": len(s.wipeSvc.ChainRecords()),
	})
}

func (s *APIServer) handleChain(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.wipeSvc.ChainRecords())
}

func (s *APIServer) handleRecord(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.ParseUint(mux.Vars(r)["position"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errors.ErrMsgInvalidRequest})
		return
	}
	record, err := s.wipeSvc.RecordByPosition(position)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errors.ErrMsgRecordNotFound})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *APIServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	report, err := s.wipeSvc.ValidateChain()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    report.Valid(),
		"checked":  report.Checked,
		"failures": report.Failures,
	})
}

func (s *APIServer) handleStartWipe(w http.ResponseWriter, r *http.Request) {
	if !s.wipeLimiter.Allow(extractClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests, please slow down"})
		return
	}

	var req startWipeRequest
	if err := jsonx.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errors.ErrMsgInvalidRequest})
		return
	}
	if req.DeviceID == "" || req.Method == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "device_id and method are required"})
		return
	}
	if req.DeviceName == "" {
		req.DeviceName = req.DeviceID + " Device"
	}

	receipt, err := s.wipeSvc.StartWipe(req.DeviceID, req.DeviceName, req.Method)
	if err != nil {
		status := http.StatusInternalServerError
		var chainErr *errors.ChainError
		if stderrors.As(err, &chainErr) && chainErr.Code == errors.ErrCodeInvalidRequest {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonx.NewEncoder(w).Encode(v); err != nil {
		logx.Error("API", "Failed to encode response: ", err)
	}
}
