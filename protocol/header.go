package protocol

const tagBuffer = 0x00

// noCursor is the DescribeTopicPartitions sentinel meaning "no pagination
// cursor", both in the request's incoming cursor field and the response's
// next_cursor field.
const noCursor = 0xff

// RequestHeader is the Kafka RequestHeader v2: api_key, api_version,
// correlation_id, a nullable client_id, and a single tag-buffer byte that
// must be zero (spec.md §3).
type RequestHeader struct {
	ApiKey        ApiKey
	ApiVersion    int16
	CorrelationID int32
	ClientID      *string
}

// decodeRequestHeader advances pd past one RequestHeader, leaving the
// decoder positioned at the start of the request payload.
func decodeRequestHeader(pd packetDecoder) (RequestHeader, error) {
	rawKey, err := pd.getInt16()
	if err != nil {
		return RequestHeader{}, err
	}
	apiVersion, err := pd.getInt16()
	if err != nil {
		return RequestHeader{}, err
	}
	correlationID, err := pd.getInt32()
	if err != nil {
		return RequestHeader{}, err
	}
	clientID, err := pd.getNullableString()
	if err != nil {
		return RequestHeader{}, err
	}
	if err := pd.getTagBuffer(); err != nil {
		return RequestHeader{}, err
	}

	return RequestHeader{
		ApiKey:        apiKeyFromWire(rawKey),
		ApiVersion:    apiVersion,
		CorrelationID: correlationID,
		ClientID:      clientID,
	}, nil
}
