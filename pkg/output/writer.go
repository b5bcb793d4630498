package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	transcriptTitle = "TVS Service Center Feedback Call"
	languageTag     = "hinglish"
	timestampLayout = "2006-01-02 15:04:05"
)

// json mirrors python-style dumps: two space indent, stable key order,
// non-ASCII text written as-is.
var json = jsoniter.Config{
	IndentionStep: 2,
	SortMapKeys:   true,
	EscapeHTML:    false,
}.Froze()

// Result is the structured record saved once per call. Field order is
// the serialization order.
type Result struct {
	CallID         string                 `json:"call_id"`
	TimestampIST   string                 `json:"timestamp_ist"`
	Language       string                 `json:"language"`
	Answers        map[string]interface{} `json:"answers"`
	TranscriptPath string                 `json:"transcript_path"`
}

type IWriter interface {
	SaveTranscript(callID string, lines []string) (string, error)
	SaveResult(callID string, answers map[string]interface{}, transcriptPath string) (string, error)
	ReadResult(callID string) (*Result, error)
	TranscriptPath(callID string) string
	ResultPath(callID string) string
}

type writer struct {
	dir string
	loc *time.Location
}

func New(dir string) IWriter {
	if dir == "" {
		dir = "./out"
	}

	return &writer{
		dir: dir,
		loc: istLocation(),
	}
}

func istLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// containers without tzdata
		return time.FixedZone("IST", 19800)
	}
	return loc
}

func (w *writer) SaveTranscript(callID string, lines []string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(transcriptTitle + "\n")
	sb.WriteString("Call ID: " + callID + "\n")
	sb.WriteString("Timestamp: " + w.timestamp() + "\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")
	for _, line := range lines {
		sb.WriteString(line + "\n")
	}

	path := w.TranscriptPath(callID)
	if err := writeFileAtomic(path, []byte(sb.String())); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}

	return path, nil
}

func (w *writer) SaveResult(callID string, answers map[string]interface{}, transcriptPath string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	result := Result{
		CallID:         callID,
		TimestampIST:   w.timestamp(),
		Language:       languageTag,
		Answers:        answers,
		TranscriptPath: transcriptPath,
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	path := w.ResultPath(callID)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}

	return path, nil
}

func (w *writer) ReadResult(callID string) (*Result, error) {
	data, err := os.ReadFile(w.ResultPath(callID))
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	return &result, nil
}

func (w *writer) TranscriptPath(callID string) string {
	return filepath.Join(w.dir, callID+".txt")
}

func (w *writer) ResultPath(callID string) string {
	return filepath.Join(w.dir, callID+".json")
}

func (w *writer) timestamp() string {
	return time.Now().In(w.loc).Format(timestampLayout)
}

// writeFileAtomic stages the content in a temp file and renames it into
// place, so a crash never leaves a half written artifact behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
