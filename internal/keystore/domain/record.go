package domain

// Record is a persisted keystore row. It is a closed sum type: the only
// implementations are *V1Record and *V2Record, selected by the stored format tag.
type Record interface {
	// KeyName is the caller-supplied name the record is stored under.
	KeyName() string
	// RecordVersion is the record version; empty for v1 records.
	RecordVersion() string
	// Format is the record's format tag.
	Format() Format

	isRecord()
}

// V1Record holds the key service's direct ciphertext of a value.
type V1Record struct {
	Name string
	// Value is the base64-encoded key service ciphertext.
	Value string
}

// KeyName implements Record.
func (r *V1Record) KeyName() string { return r.Name }

// RecordVersion implements Record. v1 records are unversioned.
func (r *V1Record) RecordVersion() string { return "" }

// Format implements Record.
func (r *V1Record) Format() Format { return FormatV1 }

func (r *V1Record) isRecord() {}

// V2Record is a credstash-compatible envelope.
type V2Record struct {
	Name    string
	Version string
	// Key is the base64-encoded wrapped 64-byte key material.
	Key string
	// Contents is the base64-encoded AES-256-CTR ciphertext.
	Contents string
	// HMAC is the lowercase hex HMAC-SHA256 of the raw ciphertext.
	HMAC string
}

// KeyName implements Record.
func (r *V2Record) KeyName() string { return r.Name }

// RecordVersion implements Record.
func (r *V2Record) RecordVersion() string { return r.Version }

// Format implements Record.
func (r *V2Record) Format() Format { return FormatV2 }

func (r *V2Record) isRecord() {}
