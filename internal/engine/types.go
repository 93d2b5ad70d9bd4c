package engine

// Config is the canonical experiment configuration. It is owned by the
// computation engine: every mutating command returns a full replacement and the
// front end never synthesizes or patches one locally.
type Config struct {
	CaseName  string `json:"case_name"`
	SaveDir   string `json:"save_dir"`
	VideoPath string `json:"video_path"`
	DaqPath   string `json:"daq_path"`

	StartFrame  int `json:"start_frame"`
	StartRow    int `json:"start_row"`
	FrameNum    int `json:"frame_num"`
	TotalFrames int `json:"total_frames"`
	TotalRows   int `json:"total_rows"`
	FrameRate   int `json:"frame_rate"`

	// Analysis region, absent until the operator marks one. A nil pair is
	// "unset", which is not the same as [0,0].
	TopLeftPos  *[2]int `json:"top_left_pos,omitempty"`
	RegionShape *[2]int `json:"region_shape,omitempty"`

	Thermocouples []Thermocouple `json:"thermocouples"`
}

// Thermocouple maps one sensor to its DAQ column and its position on the
// video plane (y, x).
type Thermocouple struct {
	ColumnIndex int    `json:"column_index"`
	Pos         [2]int `json:"pos"`
}

// Frame is one decoded video raster: grayscale bytes, row-major, already
// decimated to viewer resolution by the engine.
type Frame struct {
	Index  int    `json:"index"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"data"`
}

// DAQ is the full acquisition matrix, fetched as one flat row-major buffer.
type DAQ struct {
	Dim  [2]int    `json:"dim"`
	Data []float64 `json:"data"`
}

// At reads one cell by direct offset arithmetic.
func (d DAQ) At(row, col int) float64 {
	return d.Data[row*d.Dim[1]+col]
}

func (d DAQ) Rows() int { return d.Dim[0] }
func (d DAQ) Cols() int { return d.Dim[1] }

// SolveJob identifies a processing run started on the engine.
type SolveJob struct {
	JobID string `json:"job_id"`
}

// Progress is one tick of the engine's job progress stream.
type Progress struct {
	JobID string `json:"job_id"`
	Stage string `json:"stage"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}
