package rotate

import "time"

// DatePlaceholder marks where the period stamp goes in a rotating filename.
const DatePlaceholder = "%DATE%"

// DefaultDateLayout rolls files over once a day.
const DefaultDateLayout = "2006-01-02"

// Config configures a date-rotating Writer
type Config struct {
	// Filename is the path template, it must contain DatePlaceholder
	// e.g. /var/log/app-%DATE%.log
	Filename string

	// DateLayout is the Go time layout substituted for DatePlaceholder.
	// A new file is started whenever the formatted stamp changes.
	DateLayout string

	// MaxAge is how long dated files are kept, 0 keeps everything
	MaxAge time.Duration

	// MaxSize is the size in megabytes a single period file may reach
	// before it is rolled over within the same period (lumberjack default when 0)
	MaxSize int

	// Compress gzips files rolled over because of MaxSize
	Compress bool

	// Now is the clock, time.Now when nil
	Now func() time.Time
}
