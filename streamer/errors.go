package streamer

// ConfigError reports an invalid streamer configuration, detected before
// any endpoint resolution happens.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "streamer: invalid configuration: " + e.Reason
}

// StartError reports a failure while starting the streamer.
type StartError struct {
	Reason string
	Err    error
}

func (e *StartError) Error() string {
	msg := "streamer: failed to start (" + e.Reason + ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StartError) Unwrap() error { return e.Err }

// StopError reports a failure while stopping the streamer, including
// calling Stop out of sequence.
type StopError struct {
	Reason string
	Err    error
}

func (e *StopError) Error() string {
	msg := "streamer: failed to stop (" + e.Reason + ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StopError) Unwrap() error { return e.Err }
