package broker

import (
	"log"
	"os"
)

// StdLogger is the logging interface broker writes diagnostic output
// through, matching sarama's own Logger seam so callers can plug in
// whatever logging package their application already uses.
type StdLogger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Logger is the package-wide logging sink, a package variable in the
// same shape as sarama.Logger. Unlike sarama's discarding default, it
// defaults to a logger writing to stderr with a broker prefix, and can be
// overridden before constructing a Server.
var Logger StdLogger = log.New(os.Stderr, "[kafka-broker] ", log.LstdFlags)

func logf(format string, v ...interface{}) {
	Logger.Printf(format, v...)
}
