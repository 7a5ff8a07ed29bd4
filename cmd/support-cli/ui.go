// Package main provides UI utilities for the support engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// UI provides user-friendly output utilities.
type UI struct {
	jsonMode bool
}

// NewUI creates a new UI instance.
func NewUI(jsonMode bool) *UI {
	return &UI{jsonMode: jsonMode}
}

// Success prints a success message.
func (ui *UI) Success(format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgGreen).Printf("✓ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (ui *UI) Error(format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Reply prints the answer text.
func (ui *UI) Reply(text string) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgCyan, color.Bold).Println(text)
}

// Detail prints dimmed supplementary output.
func (ui *UI) Detail(format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	color.New(color.Faint).Printf("%s\n", fmt.Sprintf(format, args...))
}
