package report

// Report is the top-level output of a hippo batch run.
type Report struct {
	Version     int     `json:"version"`
	GeneratedAt string  `json:"generated_at"`
	Profile     string  `json:"profile"`
	Quality     int     `json:"quality"`
	Workers     int     `json:"workers,omitempty"`
	Entries     []Entry `json:"entries"`
	Stats       Stats   `json:"stats"`
}

// Entry describes one input file and what became of it.
type Entry struct {
	Input      string     `json:"input"` // relative to the input directory
	Output     string     `json:"output,omitempty"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`
	InputSize  int64      `json:"input_size"`
	OutputSize int64      `json:"output_size,omitempty"`
	Hash       string     `json:"hash,omitempty"` // xxhash64 of the output as 16 hex digits
	DurationMS int64      `json:"duration_ms"`
	Error      *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo is a failed conversion.
type ErrorInfo struct {
	Kind    string `json:"kind"` // snake_case failure kind
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

// Stats aggregates the run.
type Stats struct {
	Converted        int   `json:"converted"`
	Failed           int   `json:"failed"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1
