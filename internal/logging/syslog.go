package logging

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// SyslogConfig contains syslog writer configuration. Only remote servers
// are supported: the stdlib local syslog transport does not exist on the
// Windows hosts guestport runs on, so messages are framed here (RFC 3164)
// and sent over a plain connection.
type SyslogConfig struct {
	// Network is "udp" or "tcp".
	Network string

	// Address is the remote syslog server address (e.g., "logs.example.com:514").
	Address string

	// Facility is the syslog facility (e.g., "local0", "user", "daemon").
	Facility string

	// Tag is the program name/tag for syslog messages.
	Tag string

	// ErrorLogger logs internal errors to a file (optional).
	ErrorLogger *ErrorLogger
}

// SyslogWriter sends logs to a remote syslog server.
type SyslogWriter struct {
	conn        net.Conn
	network     string
	facility    int
	tag         string
	hostname    string
	errorLogger *ErrorLogger
	address     string // for error messages
	mu          sync.Mutex
}

// NewSyslogWriter creates a new remote syslog writer.
func NewSyslogWriter(cfg SyslogConfig) (*SyslogWriter, error) {
	if cfg.Network == "" || cfg.Address == "" {
		return nil, fmt.Errorf("remote syslog requires a network and address")
	}
	if cfg.Network != "udp" && cfg.Network != "tcp" {
		return nil, fmt.Errorf("unsupported syslog network %q (use 'udp' or 'tcp')", cfg.Network)
	}

	tag := cfg.Tag
	if tag == "" {
		tag = "guestport"
	}

	conn, err := net.Dial(cfg.Network, cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to syslog: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	return &SyslogWriter{
		conn:        conn,
		network:     cfg.Network,
		facility:    parseFacility(cfg.Facility),
		tag:         tag,
		hostname:    hostname,
		errorLogger: cfg.ErrorLogger,
		address:     cfg.Network + "://" + cfg.Address,
	}, nil
}

// Write sends a log entry to the syslog server.
func (s *SyslogWriter) Write(entry *Entry) error {
	// Format as JSON for structured logging
	msg, err := json.Marshal(entry)
	if err != nil {
		msg = []byte(entry.Message)
	}

	pri := s.facility*8 + levelToSeverity(entry.Level)
	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	frame := fmt.Sprintf("<%d>%s %s %s: %s",
		pri, timestamp.Format(time.Stamp), s.hostname, s.tag, msg)
	if s.network == "tcp" {
		frame += "\n"
	}

	s.mu.Lock()
	_, writeErr := s.conn.Write([]byte(frame))
	s.mu.Unlock()

	if writeErr != nil {
		s.errorLogger.LogErrorf("syslog", "failed to write to %s: %v", s.address, writeErr)
	}
	return writeErr
}

// Close closes the syslog connection.
func (s *SyslogWriter) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// levelToSeverity maps an entry level to an RFC 3164 severity number.
func levelToSeverity(level Level) int {
	switch level {
	case LevelDebug:
		return 7
	case LevelInfo:
		return 6
	case LevelWarn:
		return 4
	case LevelError:
		return 3
	default:
		return 6
	}
}

// parseFacility converts a facility name to its RFC 3164 number.
func parseFacility(name string) int {
	switch name {
	case "kern":
		return 0
	case "user":
		return 1
	case "mail":
		return 2
	case "daemon":
		return 3
	case "auth":
		return 4
	case "syslog":
		return 5
	case "lpr":
		return 6
	case "news":
		return 7
	case "uucp":
		return 8
	case "cron":
		return 9
	case "authpriv":
		return 10
	case "ftp":
		return 11
	case "local0":
		return 16
	case "local1":
		return 17
	case "local2":
		return 18
	case "local3":
		return 19
	case "local4":
		return 20
	case "local5":
		return 21
	case "local6":
		return 22
	case "local7":
		return 23
	default:
		return 16
	}
}
