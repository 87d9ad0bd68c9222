package protocol

// ApiKey identifies a Kafka request type, in the tagged-variant style
// recommended by spec.md §9: a closed set of constants plus a lookup table of
// supported version ranges, resolved through apiKeyInfo rather than dynamic
// dispatch. ApiKeyUnsupported is the catch-all the dispatcher returns for any
// wire value outside this set.
type ApiKey int16

const (
	ApiKeyProduce                 ApiKey = 0
	ApiKeyFetch                   ApiKey = 1
	ApiKeyApiVersions             ApiKey = 18
	ApiKeyDescribeTopicPartitions ApiKey = 75
	ApiKeyUnsupported             ApiKey = -1
)

// versionRange is the inclusive [min, max] of api_version this broker
// understands for one ApiKey.
type versionRange struct {
	min, max int16
}

// supportedAPIs is the server's full advertised set, in ApiVersions response
// order. It is also the definition of "supported" the dispatcher consults.
var supportedAPIs = []struct {
	key  ApiKey
	name string
	rng  versionRange
}{
	{ApiKeyProduce, "Produce", versionRange{0, 11}},
	{ApiKeyFetch, "Fetch", versionRange{0, 16}},
	{ApiKeyApiVersions, "ApiVersions", versionRange{0, 4}},
	{ApiKeyDescribeTopicPartitions, "DescribeTopicPartitions", versionRange{0, 0}},
}

// versionRangeFor returns the declared (min, max) for key and whether key is
// one this broker supports at all.
func versionRangeFor(key ApiKey) (versionRange, bool) {
	for _, api := range supportedAPIs {
		if api.key == key {
			return api.rng, true
		}
	}
	return versionRange{}, false
}

// IsSupportedVersion reports whether version falls within key's declared
// range; an unsupported key always answers false.
func IsSupportedVersion(key ApiKey, version int16) bool {
	rng, ok := versionRangeFor(key)
	if !ok {
		return false
	}
	return version >= rng.min && version <= rng.max
}

func apiKeyFromWire(v int16) ApiKey {
	key := ApiKey(v)
	if _, ok := versionRangeFor(key); !ok {
		return ApiKeyUnsupported
	}
	return key
}
