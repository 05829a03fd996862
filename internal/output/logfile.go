package output

import (
	"os"
	"path/filepath"
)

// LogFileEnv overrides the debug log location; "off" disables it
const LogFileEnv = "PSTACK_LOG_FILE"

// LogFilePath returns where the debug log is written, or "" when disabled.
// The default is ~/.pstack/logs/pstack.log.
func LogFilePath() string {
	if custom := os.Getenv(LogFileEnv); custom != "" {
		if custom == "off" {
			return ""
		}
		return custom
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".pstack", "logs", "pstack.log")
}
