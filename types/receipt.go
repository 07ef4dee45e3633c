package types

// WipeReceipt is what a caller gets back after a wipe was simulated and its
// log appended to the chain: the assigned position and digests plus the
// artifact paths written by the collaborators.
type WipeReceipt struct {
	Log             WipeLog `json:"log"`
	Position        uint64  `json:"position"`
	Digest          string  `json:"digest"`
	PrevDigest      string  `json:"prev_digest"`
	LogPath         string  `json:"log_path,omitempty"`
	CertificatePath string  `json:"certificate_path,omitempty"`
}
