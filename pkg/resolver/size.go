package resolver

// FieldSize returns the footprint one key/value pair contributes to the
// metadata total under the given limit arithmetic.
func FieldSize(key, value string, limits Limits) int {
	return len(key) + len(value) + limits.PerFieldOverhead
}

// MetadataSize sums the serialized footprint of an encoded metadata map.
func MetadataSize(metadata map[string]string, limits Limits) int {
	total := 0
	for k, v := range metadata {
		total += FieldSize(k, v, limits)
	}
	return total
}

// Fits reports whether the map's footprint is within the ceiling.
func Fits(metadata map[string]string, limits Limits) bool {
	return MetadataSize(metadata, limits) <= limits.limit()
}
