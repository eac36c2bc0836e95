package domain

import "fmt"

// Item is the flat attribute set persisted by repositories. Attribute names follow
// the credstash layout (see the repository implementations for column mapping).
// Empty strings mean the attribute is absent.
type Item struct {
	ParameterName  string
	Name           string
	Version        string
	Value          string
	Key            string
	Contents       string
	HMAC           string
	KeystoreFormat string
}

// NewItem flattens a record for persistence. v2 records store the key name under
// both ParameterName and name.
func NewItem(record Record) Item {
	switch r := record.(type) {
	case *V1Record:
		return Item{
			ParameterName: r.Name,
			Value:         r.Value,
		}
	case *V2Record:
		return Item{
			ParameterName:  r.Name,
			Name:           r.Name,
			Version:        r.Version,
			Key:            r.Key,
			Contents:       r.Contents,
			HMAC:           r.HMAC,
			KeystoreFormat: string(FormatV2),
		}
	default:
		panic(fmt.Sprintf("keystore: unexpected record type %T", record))
	}
}

// Record decodes the item into its record variant using the stored format tag.
// An absent tag or "v1" yields a *V1Record, "v2" a *V2Record, anything else
// ErrUnknownFormat. A v1 item without a value is reported as ErrKeyNotFound.
func (i Item) Record() (Record, error) {
	switch Format(i.KeystoreFormat) {
	case "", FormatV1:
		if i.Value == "" {
			return nil, fmt.Errorf("%w: keyname %s", ErrKeyNotFound, i.ParameterName)
		}
		return &V1Record{Name: i.ParameterName, Value: i.Value}, nil
	case FormatV2:
		name := i.ParameterName
		if name == "" {
			name = i.Name
		}
		return &V2Record{
			Name:     name,
			Version:  i.Version,
			Key:      i.Key,
			Contents: i.Contents,
			HMAC:     i.HMAC,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, i.KeystoreFormat)
	}
}
