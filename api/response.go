package api

// Non-streaming report of a whole run, written once the run is over

// TestReport represents the verdict of a single test
type TestReport struct {
	// Program is the candidate the test was run for; it differs between the
	// submissions of a sweep.
	Program    string  `json:"program"`
	Label      string  `json:"label"`
	Verdict    string  `json:"verdict"`
	Message    string  `json:"message"`
	Correct    bool    `json:"correct"`
	WallMillis []int64 `json:"wall_ms"`
}

// CompileReport represents the outcome of building one program
type CompileReport struct {
	Program    string `json:"program"`
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped"`
	Cached     bool   `json:"cached"`
	Output     string `json:"output,omitempty"`
	WallMillis int64  `json:"wall_ms"`
}

type RunStatus string

const (
	Finished      RunStatus = "finished"
	NoTests       RunStatus = "no_tests"
	CompileError  RunStatus = "compile_error"
	InternalError RunStatus = "internal_error"
)

// RunReport is the complete account of a grading run
type RunReport struct {
	RunUuid  string    `json:"run_uuid"`
	Mode     string    `json:"mode"`
	Programs []string  `json:"programs"`
	Status   RunStatus `json:"status"`

	Compilations []CompileReport `json:"compilations"`
	Tests        []TestReport    `json:"tests"`

	Total   int `json:"total"`
	Correct int `json:"correct"`

	// Overall error message for runs that did not finish
	ErrorMessage *string `json:"error_message,omitempty"`

	// Execution metadata
	StartTime   string `json:"start_time"`
	FinishTime  string `json:"finish_time"`
	TotalTimeMs int64  `json:"total_time_ms"`

	// System information
	SystemInfo *string `json:"system_info,omitempty"`
}
