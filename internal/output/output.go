// Package output prints operator-facing lines on stdout.
//
// Colors are applied only when stdout is a terminal (fatih/color handles the
// detection), so redirected output stays plain text.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

// stepOpen is set between Step and Done so a diagnostic printed in between
// starts on a fresh line.
var (
	stepMu   sync.Mutex
	stepOpen bool
)

func closeStep() {
	stepMu.Lock()
	defer stepMu.Unlock()
	if stepOpen {
		fmt.Fprintln(color.Output)
		stepOpen = false
	}
}

// Step prints the start of a progress line without ending it
func Step(format string, args ...interface{}) {
	closeStep()
	_, _ = infoColor.Printf(format, args...)
	stepMu.Lock()
	stepOpen = true
	stepMu.Unlock()
}

// Done completes the line opened by Step
func Done() {
	stepMu.Lock()
	defer stepMu.Unlock()
	if !stepOpen {
		return
	}
	_, _ = successColor.Println(" - DONE!")
	stepOpen = false
}

// Reporter adapts Step and Done to the site.Reporter interface
type Reporter struct{}

// Step starts a progress line
func (Reporter) Step(msg string) { Step("%s", msg) }

// Done completes the current progress line
func (Reporter) Done() { Done() }

// JSON outputs data as JSON
func JSON(data interface{}) error {
	closeStep()
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Table outputs data as a formatted table
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	closeStep()

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(headers))
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Println(line(headers))
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	fmt.Println(line(sep))
	for _, row := range rows {
		fmt.Println(line(row))
	}
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	closeStep()
	_, _ = successColor.Printf(format+"\n", args...)
}

// Error prints an error diagnostic
func Error(format string, args ...interface{}) {
	closeStep()
	_, _ = errorColor.Printf("ERROR: "+format+"\n", args...)
}

// Warn prints a warning message
func Warn(format string, args ...interface{}) {
	closeStep()
	_, _ = warnColor.Printf("WARNING: "+format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	closeStep()
	_, _ = infoColor.Printf(format+"\n", args...)
}

// Print prints a plain message
func Print(format string, args ...interface{}) {
	closeStep()
	fmt.Printf(format+"\n", args...)
}
