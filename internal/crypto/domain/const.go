// Package domain holds the key references, data keys and error kinds shared by the
// keystore codecs and key services.
package domain

const (
	// DataKeySize is the size in bytes of the AES-256 cipher key.
	DataKeySize = 32

	// HMACKeySize is the size in bytes of the HMAC-SHA256 key.
	HMACKeySize = 32

	// KeyMaterialSize is the number of bytes requested from the key service for a
	// single envelope: the cipher key followed by the HMAC key.
	KeyMaterialSize = DataKeySize + HMACKeySize

	// AliasPrefix prefixes every alias name registered in the key service.
	AliasPrefix = "alias/"

	// DefaultKeyAlias is used when neither a key id nor an alias is configured.
	DefaultKeyAlias = "keystore"
)
