package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const signatureTolerance = 5 * time.Minute

// verifySignature checks the provider signature header against the raw body.
// Header format: "t=<unix>,v1=<hex hmac-sha256 of '<t>.<body>'>". The
// timestamp must be within tolerance of now.
func verifySignature(secret string, payload []byte, header string, now time.Time) error {
	var timestamp int64
	var signature string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signature = kv[1]
		}
	}

	if timestamp == 0 || signature == "" {
		return ErrInvalidSignature
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrInvalidSignature
	}

	expected := computeSignature(secret, payload, timestamp)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func computeSignature(secret string, payload []byte, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayload builds a valid signature header for the given body. The test
// suite and local tooling use it to fabricate provider requests.
func SignPayload(secret string, payload []byte, now time.Time) string {
	ts := now.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature(secret, payload, ts))
}
