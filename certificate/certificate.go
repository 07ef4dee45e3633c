package certificate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"wipeforge/ledger"
	"wipeforge/logx"
	"wipeforge/types"
)

var certTemplate = template.Must(template.New("certificate").Parse(
	`================================================================
                CERTIFICATE OF DATA ERASURE
================================================================
Certificate ID : {{.CertificateID}}
Device         : {{.Log.DeviceName}} ({{.Log.DeviceID}})
Wiping Method  : {{.Log.Method}} ({{.Log.Passes}} passes)
Status         : {{.Log.Status}}
Started        : {{.Log.StartedAt}}
Finished       : {{.Log.FinishedAt}}

Chain Position : {{.Record.Position}}
Record Digest  : {{.Record.Digest}}
Previous Digest: {{.Record.PrevDigest}}

This record is part of a tamper-evident chain. Recomputing the
digest over the canonical record content must reproduce the
digest above; any mismatch means the record was altered after
issuance.
================================================================
`))

type certData struct {
	CertificateID string
	Log           types.WipeLog
	Record        *ledger.Record
}

// Render produces the certificate text for an appended wipe record.
func Render(record *ledger.Record, log types.WipeLog) (string, error) {
	var b strings.Builder
	err := certTemplate.Execute(&b, certData{
		CertificateID: certificateID(log),
		Log:           log,
		Record:        record,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render certificate: %w", err)
	}
	return b.String(), nil
}

func certificateID(log types.WipeLog) string {
	return "cert_" + strings.TrimPrefix(log.LogID, "log_")
}

// Writer persists rendered certificates under a directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write renders and stores the certificate, returning its path. An empty
// directory disables persistence and returns only the rendered text.
func (w *Writer) Write(record *ledger.Record, log types.WipeLog) (string, string, error) {
	text, err := Render(record, log)
	if err != nil {
		return "", "", err
	}
	if w.dir == "" {
		return text, "", nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create certificate directory: %w", err)
	}
	path := filepath.Join(w.dir, certificateID(log)+".txt")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write certificate: %w", err)
	}
	logx.Info("CERT", "Issued certificate for device ", log.DeviceID, " at ", path)
	return text, path, nil
}
