package protocol

// KError is a Kafka protocol error code, in the style of franz-go's kerr.Error
// (srenatus-franz-go/kerr/kerr.go): a small typed wrapper with a fixed table
// of known codes rather than a bag of sentinel error values.
type KError int16

const (
	ErrUnknown                 KError = -1
	ErrNone                    KError = 0
	ErrUnknownTopicOrPartition KError = 3
	ErrUnsupportedVersion      KError = 35
	ErrUnknownServerError      KError = -1
	ErrUnknownTopicID          KError = 100
)

var errorMessages = map[KError]string{
	ErrUnknown:                 "UNKNOWN",
	ErrNone:                    "NONE",
	ErrUnknownTopicOrPartition: "UNKNOWN_TOPIC_OR_PARTITION",
	ErrUnsupportedVersion:      "UNSUPPORTED_VERSION",
	ErrUnknownTopicID:          "UNKNOWN_TOPIC_ID",
}

func (e KError) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return "UNKNOWN"
}
