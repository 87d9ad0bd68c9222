package protocol

// Request is a frame with its header already parsed off; Payload is
// everything after the header, still undecoded (spec.md §3). Handlers decode
// further from Payload themselves.
type Request struct {
	MessageSize int32
	Header      RequestHeader
	Payload     []byte
}

// ParseRequest decodes message_size and the RequestHeader from a frame body
// (the bytes ReadFrame returned, i.e. with the 4-byte length prefix already
// stripped by the framing layer - message_size here is implicit in len(body)
// rather than re-read, since the frame reader already validated it).
func ParseRequest(body []byte) (Request, error) {
	pd := newRealDecoder(body)
	header, err := decodeRequestHeader(pd)
	if err != nil {
		return Request{}, err
	}
	return Request{
		MessageSize: int32(len(body)),
		Header:      header,
		Payload:     body[len(body)-pd.remaining():],
	}, nil
}

// unsupportedVersionBody builds the minimal response the dispatcher sends
// for a request whose api_version is outside the declared range (spec.md
// §4.E): just the echoed correlation_id and error code 35, no header tag
// byte, no body beyond that.
func unsupportedVersionBody(correlationID int32) []byte {
	pe := newRealEncoder()
	pe.putInt32(correlationID)
	pe.putInt16(int16(ErrUnsupportedVersion))
	return pe.bytes()
}

// UnsupportedVersionResponse is exported so broker.Dispatcher can build the
// same body without reaching into package-private helpers.
func UnsupportedVersionResponse(correlationID int32) []byte {
	return unsupportedVersionBody(correlationID)
}
