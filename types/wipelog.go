package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Wipe status values carried in chain payloads.
const (
	WipeStatusSuccess = "Wipe Successful"
	WipeStatusFailed  = "Wipe Failed"
)

// Supported wipe methods and their simulated pass counts.
const (
	MethodDoD5220  = "DoD 5220.22-M"
	MethodGutmann  = "Gutmann Method"
	MethodATAErase = "ATA Secure Erase"
	MethodNISTClr  = "NIST 800-88 Clear"
)

// MethodPasses maps a wipe method to the number of overwrite passes it
// performs. Unknown methods are rejected before a wipe starts.
var MethodPasses = map[string]int{
	MethodDoD5220:  3,
	MethodGutmann:  35,
	MethodATAErase: 1,
	MethodNISTClr:  1,
}

// WipeLog is the structured record of one wipe run. It is handed to the
// chain as an opaque payload; only the canonical serializer ever touches it.
type WipeLog struct {
	LogID      string `json:"log_id"`
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Method     string `json:"method"`
	Status     string `json:"status"`
	Passes     int    `json:"passes"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

// NewWipeLog creates a wipe log with a fresh unique log ID.
func NewWipeLog(deviceID, deviceName, method string) WipeLog {
	return WipeLog{
		LogID:      fmt.Sprintf("log_%s", uuid.NewString()),
		DeviceID:   deviceID,
		DeviceName: deviceName,
		Method:     method,
	}
}

// FormatTimestamp renders a timestamp the way wipe logs and certificates
// display it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
