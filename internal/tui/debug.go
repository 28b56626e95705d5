package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/freetogether/internal/selection"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// DebugLogger logs TUI state, keystrokes, and events to a file.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "freetogether-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	return initDebugLoggerAt(DebugLogPath, enabled)
}

func initDebugLoggerAt(logPath string, enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": logPath,
		"time":     time.Now().Format(time.RFC3339),
	})

	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.file.Close()
		debugLog.file = nil
	}
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.file, "%s\n", b)
}

func debugEnabled() bool {
	return debugLog != nil && debugLog.enabled
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if !debugEnabled() {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key": msg.String(),
	})
}

// LogMouse logs a pointer event that touched a cell.
func LogMouse(msg tea.MouseMsg, k slot.Key) {
	if !debugEnabled() {
		return
	}
	debugLog.log("MOUSE", map[string]any{
		"x":     msg.X,
		"y":     msg.Y,
		"mouse": msg.String(),
		"slot":  string(k),
	})
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if !debugEnabled() {
		return
	}
	debugLog.log("MODE_CHANGE", map[string]any{
		"from":   modeString(from),
		"to":     modeString(to),
		"reason": reason,
	})
}

// LogTabChange logs a tab switch.
func LogTabChange(to Tab) {
	if !debugEnabled() {
		return
	}
	debugLog.log("TAB_CHANGE", map[string]any{
		"to": to.String(),
	})
}

// LogSelection logs the selection machine state.
func LogSelection(sm *selection.Machine, action string) {
	if !debugEnabled() || sm == nil {
		return
	}
	st := sm.State()
	avail, maybe := sm.Counts()
	debugLog.log("SELECTION", map[string]any{
		"action":    action,
		"painting":  st.Painting,
		"mode":      st.Mode.String(),
		"intent":    st.Intent.String(),
		"disabled":  sm.Disabled(),
		"available": avail,
		"maybe":     maybe,
		"dirty":     sm.HasChanges(),
		"undo":      sm.UndoCount(),
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	if !debugEnabled() || err == nil {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// modeString returns a string representation of a Mode.
func modeString(m Mode) string {
	switch m {
	case ModeGrid:
		return "Grid"
	case ModePrompt:
		return "Prompt"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}
