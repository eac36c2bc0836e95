package domain

// DataKey is the key material returned by a key service for one envelope.
//
// Plaintext holds KeyMaterialSize raw bytes: [0,32) is the AES-256 cipher key and
// [32,64) is the HMAC-SHA256 key. It lives only for the duration of one store or
// retrieve call and must be zeroed with Zero as soon as it is no longer needed.
// Wrapped is the key service's encrypted form and is the only part ever persisted.
type DataKey struct {
	Plaintext []byte
	Wrapped   []byte
}

// Split returns the cipher key and the HMAC key. Both slices alias Plaintext, so
// zeroing the DataKey also clears them.
func (d *DataKey) Split() (dataKey, hmacKey []byte, err error) {
	return SplitKeyMaterial(d.Plaintext)
}

// Zero clears the plaintext key material.
func (d *DataKey) Zero() {
	Zero(d.Plaintext)
}

// SplitKeyMaterial splits raw key material into the cipher key and the HMAC key.
func SplitKeyMaterial(material []byte) (dataKey, hmacKey []byte, err error) {
	if len(material) != KeyMaterialSize {
		return nil, nil, ErrInvalidKeyMaterial
	}
	return material[:DataKeySize:DataKeySize], material[DataKeySize:], nil
}

// Zero overwrites b with zeros. Callers clear raw key material with it before
// returning, on both success and failure paths.
func Zero(b []byte) {
	clear(b)
}
