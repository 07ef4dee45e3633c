package wipeengine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wipeforge/errors"
	"wipeforge/logx"
	"wipeforge/types"
)

// Engine simulates device wipes. Each run produces a WipeLog suitable as a
// chain payload plus a human-readable transcript written to the log
// directory. The chain itself never sees the transcript or the filesystem.
type Engine struct {
	logDir    string
	passDelay time.Duration
}

// Result is the outcome of one simulated wipe.
type Result struct {
	Log        types.WipeLog
	Transcript string
	LogPath    string
}

func New(logDir string, passDelay time.Duration) *Engine {
	return &Engine{logDir: logDir, passDelay: passDelay}
}

// Wipe runs the pass simulation for a device and writes the transcript.
// Unknown methods fail before any pass runs.
func (e *Engine) Wipe(deviceID, deviceName, method string) (*Result, error) {
	passes, ok := types.MethodPasses[method]
	if !ok {
		return nil, errors.NewError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported wipe method %q", method))
	}

	log := types.NewWipeLog(deviceID, deviceName, method)
	started := time.Now()
	log.StartedAt = types.FormatTimestamp(started)
	log.Passes = passes

	var transcript strings.Builder
	fmt.Fprintf(&transcript, "WipeForge wipe log %s\n", log.LogID)
	fmt.Fprintf(&transcript, "Device: %s (%s)\n", deviceName, deviceID)
	fmt.Fprintf(&transcript, "Method: %s (%d passes)\n", method, passes)
	fmt.Fprintf(&transcript, "Started: %s\n\n", log.StartedAt)

	for pass := 1; pass <= passes; pass++ {
		if e.passDelay > 0 {
			time.Sleep(e.passDelay)
		}
		fmt.Fprintf(&transcript, "Pass %d/%d: overwrite complete\n", pass, passes)
	}

	log.Status = types.WipeStatusSuccess
	log.FinishedAt = types.FormatTimestamp(time.Now())
	fmt.Fprintf(&transcript, "\nFinished: %s\nStatus: %s\n", log.FinishedAt, log.Status)

	result := &Result{Log: log, Transcript: transcript.String()}
	path, err := e.writeTranscript(log.LogID, result.Transcript)
	if err != nil {
		return nil, err
	}
	result.LogPath = path

	logx.Info("WIPE", "Completed ", method, " wipe for device ", deviceID)
	return result, nil
}

func (e *Engine) writeTranscript(logID, transcript string) (string, error) {
	if e.logDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(e.logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(e.logDir, logID+".log")
	if err := os.WriteFile(path, []byte(transcript), 0644); err != nil {
		return "", fmt.Errorf("failed to write wipe log: %w", err)
	}
	return path, nil
}
