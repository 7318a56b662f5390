package miditrig

// Hook lets embedders observe engine activity for logging, metering or
// traces. All callbacks run on the engine's worker goroutine and must not
// block. A nil hook disables all notifications.
type Hook interface {
	// OnEvent fires for every dispatched MIDI event, after deduplication.
	OnEvent(seq uint64, data []byte)
	// OnVoiceSpawned fires when a note-on produced a playback instance.
	OnVoiceSpawned(note uint8, velocity uint8, path string, rate float64)
	// OnVoiceTrimmed fires when a note-off shrank an instance to the held
	// duration.
	OnVoiceTrimmed(note uint8, length float64)
	// OnVoiceDropped fires when a voice was released without trimming,
	// either because its instance was externally destroyed or because it
	// already played past the held duration.
	OnVoiceDropped(note uint8)
	// OnBend fires when a pitch wheel event changed the shared bend value
	// (after bucket suppression).
	OnBend(semitones float64)
}
