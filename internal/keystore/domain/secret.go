package domain

// Secret is a decrypted value together with the record it was read from.
type Secret struct {
	Name string
	// Version is the version of the record that was served; empty for v1 records.
	Version string
	Format  Format
	Value   string
}

// NewSecret pairs a decrypted value with the identity of its record.
func NewSecret(record Record, value string) Secret {
	return Secret{
		Name:    record.KeyName(),
		Version: record.RecordVersion(),
		Format:  record.Format(),
		Value:   value,
	}
}
