package ffmpeg

// Statistics is a progress sample of a running job.
type Statistics struct {
	VideoFrameNumber int     `json:"video_frame_number"`
	VideoFps         float32 `json:"video_fps"`
	VideoQuality     float32 `json:"video_quality"`
	Size             int64   `json:"size"`
	Time             int     `json:"time"` // milliseconds
	Bitrate          float64 `json:"bitrate"`
	Speed            float64 `json:"speed"`
}

// Update folds a newer sample into s. Only positive fields overwrite, so a
// sample that lacks a value keeps the last one seen.
func (s *Statistics) Update(n Statistics) {
	if n.VideoFrameNumber > 0 {
		s.VideoFrameNumber = n.VideoFrameNumber
	}
	if n.VideoFps > 0 {
		s.VideoFps = n.VideoFps
	}
	if n.VideoQuality > 0 {
		s.VideoQuality = n.VideoQuality
	}
	if n.Size > 0 {
		s.Size = n.Size
	}
	if n.Time > 0 {
		s.Time = n.Time
	}
	if n.Bitrate > 0 {
		s.Bitrate = n.Bitrate
	}
	if n.Speed > 0 {
		s.Speed = n.Speed
	}
}
