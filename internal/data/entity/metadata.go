package entity

// Metadata is the free-form key/value blob attached to a payment or notification.
type Metadata map[string]any

// Merge applies a shallow merge: keys in update override, untouched keys persist.
// It never mutates the receiver.
func (m Metadata) Merge(update map[string]any) Metadata {
	merged := make(Metadata, len(m)+len(update))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range update {
		merged[k] = v
	}
	return merged
}

func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
