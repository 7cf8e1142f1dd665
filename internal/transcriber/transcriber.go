package transcriber

import "context"

// StreamWriter is the send side of one live recognition stream. Write
// forwards one audio chunk as a discrete unit; chunk boundaries are
// preserved end to end. Close signals end of input to the vendor so it
// can finalize any pending transcript.
type StreamWriter interface {
	Write(chunk []byte) error
	Close() error
}

// ResultReceiver consumes incremental recognition results. Results
// arrive in vendor order with no one-to-one relationship to input
// chunks. OnError is called once for an unrecoverable stream failure.
type ResultReceiver interface {
	OnResult(transcript string, isFinal bool)
	OnError(err error)
}

type Transcriber interface {
	StartStreaming(ctx context.Context, sessionID, language string, receiver ResultReceiver) (StreamWriter, error)
}
