package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/acarl005/stripansi"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

var levelColors = map[Level]color.Attribute{
	ErrorLevel:   color.FgRed,
	WarnLevel:    color.FgYellow,
	InfoLevel:    color.FgGreen,
	HTTPLevel:    color.FgGreen,
	VerboseLevel: color.FgCyan,
	DebugLevel:   color.FgBlue,
	SillyLevel:   color.FgMagenta,
}

// ConsoleFormatter renders "[<timestamp>] <level>: <message>", the whole
// line colored by severity when colors are on.
type ConsoleFormatter struct {
	TimestampFormat string
	colors          map[Level]*color.Color
}

// NewConsoleFormatter creates a console formatter with colors on or off
func NewConsoleFormatter(colorize bool) *ConsoleFormatter {
	colors := make(map[Level]*color.Color, len(levelColors))
	for level, attr := range levelColors {
		c := color.New(attr)
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		colors[level] = c
	}

	return &ConsoleFormatter{
		TimestampFormat: ConsoleTimestampFormat,
		colors:          colors,
	}
}

// Format implements logrus.Formatter
func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := Level(entry.Level)

	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s: %s", entry.Time.Format(f.TimestampFormat), level, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, Inspect(entry.Data[k]))
	}

	line := b.String()
	if c, ok := f.colors[level]; ok {
		line = c.Sprint(line)
	}
	return append([]byte(line), '\n'), nil
}

// FileFormatter writes one JSON object per record with level, message,
// timestamp and the record fields. Every string in the record is stripped
// of ANSI escape sequences first.
type FileFormatter struct {
	TimestampFormat string
}

// NewFileFormatter creates a file formatter
func NewFileFormatter() *FileFormatter {
	return &FileFormatter{TimestampFormat: FileTimestampFormat}
}

// Format implements logrus.Formatter
func (f *FileFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Data)+3)
	for k, v := range entry.Data {
		switch k {
		case "level", "message", "timestamp":
			k = "fields." + k
		}
		data[k] = stripValue(v)
	}

	data["level"] = Level(entry.Level).String()
	data["message"] = stripansi.Strip(entry.Message)
	data["timestamp"] = entry.Time.UTC().Format(f.TimestampFormat)

	var b bytes.Buffer
	encoder := json.NewEncoder(&b)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		return nil, fmt.Errorf("failed to marshal fields to JSON: %w", err)
	}
	return b.Bytes(), nil
}

// stripValue removes ANSI sequences from strings nested in v and turns
// values JSON cannot encode into their inspected text.
func stripValue(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return stripansi.Strip(t)
	case error:
		return stripansi.Strip(fmt.Sprint(t))
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = stripValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = stripValue(item)
		}
		return out
	case []string:
		out := make([]string, len(t))
		for i, item := range t {
			out[i] = stripansi.Strip(item)
		}
		return out
	case fmt.Stringer:
		return stripEncoded(t, func() string { return fmt.Sprint(t) })
	default:
		return stripEncoded(t, func() string { return Inspect(t) })
	}
}

// stripEncoded strips v through its JSON form. Values whose encoding holds
// an escape character are decoded into generic maps and slices first;
// values JSON rejects are rendered with fallback.
func stripEncoded(v interface{}, fallback func() string) interface{} {
	encoded, err := json.Marshal(v)
	if err != nil {
		return stripansi.Strip(fallback())
	}
	if !bytes.Contains(encoded, []byte(`\u001b`)) {
		return v
	}

	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var generic interface{}
	if err := decoder.Decode(&generic); err != nil {
		return stripansi.Strip(fallback())
	}
	return stripValue(generic)
}

// discardFormatter keeps logrus from rendering records nobody reads; the
// sinks format for themselves.
type discardFormatter struct{}

func (discardFormatter) Format(*logrus.Entry) ([]byte, error) {
	return nil, nil
}
