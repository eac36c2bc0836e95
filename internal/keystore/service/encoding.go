// Package service implements the keystore record codecs: the direct (v1) codec
// that delegates encryption to the key service, and the envelope (v2) codec that
// encrypts locally under a fresh data key.
package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

func encodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// decodeBase64 decodes a stored base64 attribute. Records written by MIME-style
// encoders carry line breaks, which are ignored.
func decodeBase64(attribute, s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(lineBreaks.Replace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", keystoreDomain.ErrInvalidRecord, attribute, err)
	}
	return b, nil
}
