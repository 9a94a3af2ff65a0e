package game

// FrameRecord captures one live tick of play for later replay learning.
// The grid is stored as a flat copy so records stay valid after the tick.
type FrameRecord struct {
	Tick      int       `json:"tick"`
	Grid      []float64 `json:"grid"`
	BallX     float64   `json:"ball_x"`
	BallY     float64   `json:"ball_y"`
	LeftY     float64   `json:"left_y"`
	RightY    float64   `json:"right_y"`
	LeftMove  Move      `json:"left_move"`
	RightMove Move      `json:"right_move"`
	LeftHit   bool      `json:"left_hit"`
	RightHit  bool      `json:"right_hit"`
}

// PointRecord bundles the frames of one rally with its outcome.
type PointRecord struct {
	Winner    Side          `json:"winner"`
	LeftHits  int           `json:"left_hits"`
	RightHits int           `json:"right_hits"`
	Frames    []FrameRecord `json:"frames"`
}

// Recorder observes gameplay. The Game calls RecordFrame once per live
// tick and RecordPoint when a rally ends; a nil recorder disables
// recording entirely. The Game never depends on what recorders do with
// the data.
type Recorder interface {
	RecordFrame(f FrameRecord)
	RecordPoint(winner Side, leftHits, rightHits int)
}

// BufferRecorder collects recorded points in memory. It is the simplest
// Recorder: no persistence, callers read the points back when the
// session ends.
type BufferRecorder struct {
	frames []FrameRecord
	points []PointRecord
}

// NewBufferRecorder creates an empty in-memory recorder.
func NewBufferRecorder() *BufferRecorder {
	return &BufferRecorder{}
}

// RecordFrame appends a frame to the current rally.
func (r *BufferRecorder) RecordFrame(f FrameRecord) {
	r.frames = append(r.frames, f)
}

// RecordPoint closes the current rally, bundling its frames.
func (r *BufferRecorder) RecordPoint(winner Side, leftHits, rightHits int) {
	point := PointRecord{
		Winner:    winner,
		LeftHits:  leftHits,
		RightHits: rightHits,
		Frames:    r.frames,
	}
	r.points = append(r.points, point)
	r.frames = nil
}

// Points returns all completed rallies recorded so far.
func (r *BufferRecorder) Points() []PointRecord {
	return r.points
}

// Len returns the number of completed rallies.
func (r *BufferRecorder) Len() int {
	return len(r.points)
}

var _ Recorder = (*BufferRecorder)(nil)
