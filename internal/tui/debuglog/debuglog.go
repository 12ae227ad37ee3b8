// ABOUTME: Debug log sink for the TUI that writes to a file in the config directory
// ABOUTME: Keeps log output off the terminal while the alt screen is active

package debuglog

import (
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the log file created in the config directory
const FileName = "debug.log"

var (
	logFile *os.File
	mu      sync.Mutex
)

// Init opens <configDir>/debug.log for appending. If configDir is empty,
// logging is disabled and Writer discards everything.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	if configDir == "" {
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	logFile = f
	return nil
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Writer returns a writer into the log file, safe for concurrent use. It
// discards output while logging is disabled.
func Writer() io.Writer {
	return writer{}
}

type writer struct{}

func (writer) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return len(p), nil
	}
	return logFile.Write(p)
}
