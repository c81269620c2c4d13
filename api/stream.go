package api

import "time"

// MsgType is a message type for streamed run events
type MsgType string

// Streaming message type constants
const (
	StartRunMsg      MsgType = "run_start"
	StartCompileMsg  MsgType = "compile_start"
	FinishCompileMsg MsgType = "compile_finish"
	StartTestingMsg  MsgType = "testing_start"
	ReachTestMsg     MsgType = "test_reach"
	FinishTestMsg    MsgType = "test_finish"
	MismatchMsg      MsgType = "test_mismatch"
	FinishRunMsg     MsgType = "run_finish"
)

// Size constraints for file contents and diagnostics carried in events
const (
	MaxTextHeight = 40
	MaxTextWidth  = 80
)

// Header is the common header for all streamed messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartRun message sent when a grading run begins
type StartRun struct {
	Header
	Mode        string   `json:"mode"`
	Programs    []string `json:"programs"`
	SystemInfo  string   `json:"system_info"`
	StartedTime string   `json:"started_time"`
}

// StartCompile message sent when compilation of a program begins
type StartCompile struct {
	Header
	Program string `json:"program"`
}

// FinishCompile message sent when compilation completes
type FinishCompile struct {
	Header
	Program    string `json:"program"`
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped"`
	Cached     bool   `json:"cached"`
	Output     string `json:"output"`
	WallMillis int64  `json:"wall_ms"`
}

// StartTesting message sent once all programs are compiled
type StartTesting struct {
	Header
}

// ReachTest message sent when a test is reached
type ReachTest struct {
	Header
	Label string `json:"label"`
}

// FinishTest message sent when a test is classified
type FinishTest struct {
	Header
	Label      string  `json:"label"`
	Verdict    string  `json:"verdict"`
	Message    string  `json:"message"`
	Correct    bool    `json:"correct"`
	WallMillis []int64 `json:"wall_ms"`
}

// Mismatch message carries the input, expected and actual output of a wrong answer
type Mismatch struct {
	Header
	Label    string `json:"label"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// FinishRun message sent when the run completes
type FinishRun struct {
	Header
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	ErrorMessage *string `json:"error_message"`
}

// Helper function to create a header
func NewHeader(runUuid string, msgType MsgType) Header {
	return Header{
		RunUuid: runUuid,
		MsgType: msgType,
	}
}

func NewStartRun(runUuid, mode string, programs []string, systemInfo string) StartRun {
	return StartRun{
		Header:      NewHeader(runUuid, StartRunMsg),
		Mode:        mode,
		Programs:    programs,
		SystemInfo:  systemInfo,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewStartCompile(runUuid, program string) StartCompile {
	return StartCompile{
		Header:  NewHeader(runUuid, StartCompileMsg),
		Program: program,
	}
}

func NewFinishCompile(runUuid, program string, success, skipped, cached bool, output string, wall time.Duration) FinishCompile {
	return FinishCompile{
		Header:     NewHeader(runUuid, FinishCompileMsg),
		Program:    program,
		Success:    success,
		Skipped:    skipped,
		Cached:     cached,
		Output:     TrimToRect(output, MaxTextHeight, MaxTextWidth),
		WallMillis: wall.Milliseconds(),
	}
}

func NewStartTesting(runUuid string) StartTesting {
	return StartTesting{Header: NewHeader(runUuid, StartTestingMsg)}
}

func NewReachTest(runUuid, label string) ReachTest {
	return ReachTest{
		Header: NewHeader(runUuid, ReachTestMsg),
		Label:  label,
	}
}

func NewFinishTest(runUuid, label, verdict, message string, correct bool, elapsed []time.Duration) FinishTest {
	millis := make([]int64, len(elapsed))
	for i, d := range elapsed {
		millis[i] = d.Milliseconds()
	}
	return FinishTest{
		Header:     NewHeader(runUuid, FinishTestMsg),
		Label:      label,
		Verdict:    verdict,
		Message:    TrimToRect(message, MaxTextHeight, MaxTextWidth),
		Correct:    correct,
		WallMillis: millis,
	}
}

func NewMismatch(runUuid, label, input, expected, actual string) Mismatch {
	return Mismatch{
		Header:   NewHeader(runUuid, MismatchMsg),
		Label:    label,
		Input:    TrimToRect(input, MaxTextHeight, MaxTextWidth),
		Expected: TrimToRect(expected, MaxTextHeight, MaxTextWidth),
		Actual:   TrimToRect(actual, MaxTextHeight, MaxTextWidth),
	}
}

func NewFinishRun(runUuid string, total, correct int, errorMessage *string) FinishRun {
	return FinishRun{
		Header:       NewHeader(runUuid, FinishRunMsg),
		Total:        total,
		Correct:      correct,
		ErrorMessage: errorMessage,
	}
}
