package bridge

// Event is a unit of work for the consumer: a LogEvent or a StatsEvent.
// Events are immutable once constructed.
type Event interface {
	kind() string
}

// LogEvent carries one engine log line. Text is owned by the event.
type LogEvent struct {
	Level int
	Text  []byte
}

// StatsEvent carries one engine progress sample.
type StatsEvent struct {
	Frame   int
	FPS     float32
	Quality float32
	Size    int64
	Time    int
	Bitrate float64
	Speed   float64
}

const (
	kindLog   = "log"
	kindStats = "stats"
)

func (LogEvent) kind() string   { return kindLog }
func (StatsEvent) kind() string { return kindStats }

// NewLogEvent copies text into a new LogEvent.
func NewLogEvent(level int, text string) LogEvent {
	return LogEvent{Level: level, Text: []byte(text)}
}
