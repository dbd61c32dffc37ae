package types

// ExecuteRequest is the payload of POST /execute. Exactly one of Arguments and
// Command is used; Arguments wins when both are set.
type ExecuteRequest struct {
	// Engine arguments without the program name. Empty strings are dropped.
	// example: ["-i","in.mp4","-c:v","libx264","out.mp4"]
	Arguments []string `json:"arguments,omitempty" example:"-i,in.mp4,-c:v,libx264,out.mp4"`
	// Whole command line, split on single spaces.
	// example: -i in.mp4 -c:v libx264 out.mp4
	Command string `json:"command,omitempty" example:"-i in.mp4 -c:v libx264 out.mp4"`
}

// ExecuteResponse reports a finished execution.
type ExecuteResponse struct {
	// Execution identifier.
	// example: 0b8f5f0e-5d1f-4d2b-9a43-0e4c8f6a1b2c
	ID string `json:"id" example:"0b8f5f0e-5d1f-4d2b-9a43-0e4c8f6a1b2c"`
	// Engine return code: 0 success, 255 canceled, anything else failure.
	// example: 0
	ReturnCode int `json:"return_code" example:"0"`
	// Wall time of the execution in milliseconds.
	// example: 1520
	DurationMS int64 `json:"duration_ms" example:"1520"`
}

// VersionResponse is returned by GET /version.
type VersionResponse struct {
	// Version of this service.
	// example: 0.1.0
	Version string `json:"version" example:"0.1.0"`
	// Version reported by the engine.
	// example: 7.1
	EngineVersion string `json:"engine_version" example:"7.1"`
}

// RedirectionState is returned by GET /redirection and accepted by PUT /redirection.
type RedirectionState struct {
	// Whether engine logs and statistics are routed to the host.
	// example: true
	Enabled bool `json:"enabled" example:"true"`
}

// LogLevelState is returned by GET and PUT /loglevel.
type LogLevelState struct {
	// Level name (quiet, panic, fatal, error, warning, info, verbose, debug, trace) or numeric value.
	// example: info
	Level string `json:"level" example:"info"`
	// Numeric level value.
	// example: 32
	Value int `json:"value" example:"32"`
}

// SetLogLevelRequest is accepted by PUT /loglevel. Level wins when both are set;
// one of them is required.
type SetLogLevelRequest struct {
	// Level name or numeric value as text.
	// example: debug
	Level string `json:"level,omitempty" example:"debug"`
	// Numeric level value.
	// example: 48
	Value *int `json:"value,omitempty" example:"48"`
}

// Statistics is the last received progress sample.
type Statistics struct {
	// example: 250
	VideoFrameNumber int `json:"video_frame_number" example:"250"`
	// example: 25
	VideoFps float32 `json:"video_fps" example:"25"`
	// example: 28
	VideoQuality float32 `json:"video_quality" example:"28"`
	// Output size in bytes.
	// example: 1048576
	Size int64 `json:"size" example:"1048576"`
	// Processed duration in milliseconds.
	// example: 10000
	Time int `json:"time" example:"10000"`
	// Output bitrate in kbit/s.
	// example: 838.9
	Bitrate float64 `json:"bitrate" example:"838.9"`
	// Processing speed relative to real time.
	// example: 2.5
	Speed float64 `json:"speed" example:"2.5"`
}

// LogLine is a delivered log line.
type LogLine struct {
	// example: info
	Level string `json:"level" example:"info"`
	// example: 32
	Value int `json:"value" example:"32"`
	// example: Stream mapping:
	Text string `json:"text" example:"Stream mapping:"`
}

// EventMessage is one NDJSON line of GET /events.
type EventMessage struct {
	// log or stats.
	// example: log
	Type string `json:"type" example:"log"`
	// Unix milliseconds at delivery.
	// example: 1700000000000
	TimeUnixMS int64       `json:"time_unix_ms" example:"1700000000000"`
	Log        *LogLine    `json:"log,omitempty"`
	Stats      *Statistics `json:"stats,omitempty"`
}

// FontsResponse lists fonts in the configured font directory.
type FontsResponse struct {
	// Configured font directory.
	// example: /usr/share/fonts/custom
	Dir   string `json:"dir" example:"/usr/share/fonts/custom"`
	Fonts []Font `json:"fonts"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
