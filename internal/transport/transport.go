package transport

// Event names and payload shapes pushed back to clients. These are the
// wire contract with the frontend recorder; renaming them breaks it.
const (
	EventTranscriptUpdate   = "transcript_update"
	EventTranscriptionError = "transcription_error"
)

type TranscriptUpdate struct {
	Transcript string `json:"transcript"`
	IsFinal    bool   `json:"isFinal"`
}

type TranscriptionError struct {
	Message string `json:"message"`
}

// Emitter pushes an event to one connected client. Implementations
// must be safe for concurrent use; a failed emit is the caller's
// problem to log, not to retry.
type Emitter interface {
	Emit(clientID, event string, payload any) error
}
