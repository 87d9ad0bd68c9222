package protocol

// HandleApiVersions builds the ApiVersions response body for header.
// ApiVersions ignores its request payload entirely (spec.md §4.D) and is the
// one response that does not emit a header tag byte after correlation_id -
// the "open issue" §9 calls out as load-bearing against real clients.
func HandleApiVersions(header RequestHeader) []byte {
	pe := newRealEncoder()
	pe.putInt32(header.CorrelationID)

	errCode := ErrNone
	if !IsSupportedVersion(ApiKeyApiVersions, header.ApiVersion) {
		errCode = ErrUnsupportedVersion
	}
	pe.putInt16(int16(errCode))

	pe.putCompactArrayLength(len(supportedAPIs))
	for _, api := range supportedAPIs {
		pe.putInt16(int16(api.key))
		pe.putInt16(api.rng.min)
		pe.putInt16(api.rng.max)
		pe.putTagBuffer()
	}

	pe.putInt32(0) // throttle_time_ms
	pe.putTagBuffer()

	return pe.bytes()
}
