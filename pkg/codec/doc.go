// Package codec provides the typed value codecs for the s3db metadata
// storage engine.
//
// Object-store custom metadata is capped at 2047 bytes per object, so every
// field of a record has to be packed into the smallest string that still
// round-trips losslessly. Each declared attribute type maps to a codec: a
// pure (Encode, Decode, EncodedSize) triple operating on Go values and wire
// strings.
//
// # Codecs
//
//   - string/bool: a fixed dictionary maps ~40 common literals ("active",
//     "true", "get", ...) to reserved two-byte tokens; everything else
//     passes through unchanged.
//   - int/decimal: base62 over the alphabet 0-9a-zA-Z, decimals via
//     fixed-point scaling with a per-field precision.
//   - ts: ISO-8601 -> epoch milliseconds -> base62.
//   - ip4/ip6: raw 4/16 address bytes, base64. IPv6 decode re-applies
//     RFC 5952 zero-run compression.
//   - geoLat/geoLon: offset to remove the sign, fixed-point scaled, base62
//     behind a reserved prefix.
//   - embedding: fixed-length float vector, each component fixed-point
//     base62, joined by a separator outside the base62 alphabet.
//   - secret: PBKDF2-derived AES-256-GCM, stored as
//     base64(salt || nonce || ciphertext || tag).
//   - json: JSON pass-through for arrays and nested objects.
//
// # Size Estimation
//
// EncodedSize returns the exact byte length of Encode's output without
// producing it. The size calculator uses it for cheap pre-checks against
// the metadata ceiling; it never under-reports.
//
// # Errors
//
// Codecs surface three deterministic error types: ValidationError
// (malformed or out-of-range input), EncodingError (value cannot be
// represented losslessly by its declared codec) and DecryptionError
// (secret authentication failure; the codec fails closed and never
// substitutes a default).
//
// # Thread Safety
//
// All codecs are pure functions over their inputs and hold no shared
// state; Codec values are safe for concurrent use. The secret codec draws
// a fresh salt and nonce per call, so its output varies between calls
// while its length does not.
package codec
