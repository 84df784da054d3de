package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/fwojciec/commitgen"
)

// Prompt choices.
const (
	choiceAccept     = "accept"
	choiceEdit       = "edit"
	choiceRegenerate = "regenerate"
	choiceCancel     = "cancel"
)

// ui renders progress, warnings and the message preview. It doubles as the
// pipeline's Logger.
type ui struct {
	w       io.Writer
	warn    lipgloss.Style
	info    lipgloss.Style
	preview lipgloss.Style
}

var _ commitgen.Logger = (*ui)(nil)

func newUI(w io.Writer) *ui {
	u := &ui{
		w:       w,
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		preview: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
	// Drop colors (but keep layout) when stderr is not a color terminal.
	if termenv.NewOutput(w).ColorProfile() == termenv.Ascii {
		u.warn = lipgloss.NewStyle()
		u.info = lipgloss.NewStyle()
	}
	return u
}

// Warnf implements commitgen.Logger.
func (u *ui) Warnf(format string, args ...any) {
	fmt.Fprintln(u.w, u.warn.Render("warning: "+fmt.Sprintf(format, args...)))
}

// Info prints a confirmation line.
func (u *ui) Info(msg string) {
	fmt.Fprintln(u.w, u.info.Render(msg))
}

// Progress renders the per-file analysis counter.
func (u *ui) Progress(index, total int, path string) {
	fmt.Fprintf(u.w, "analyzing (%d/%d) %s\n", index+1, total, path)
}

// Preview renders the proposed commit message in a box.
func (u *ui) Preview(message string) {
	fmt.Fprintln(u.w, u.preview.Render(message))
}

// promptChoice asks what to do with the proposed message.
func promptChoice() (string, error) {
	var choice string
	err := huh.NewSelect[string]().
		Title("Use this commit message?").
		Options(
			huh.NewOption("Accept and commit", choiceAccept),
			huh.NewOption("Edit", choiceEdit),
			huh.NewOption("Regenerate", choiceRegenerate),
			huh.NewOption("Cancel", choiceCancel),
		).
		Value(&choice).
		Run()
	if err != nil {
		return "", err
	}
	return choice, nil
}

// promptEdit opens a text area seeded with the message.
func promptEdit(message string) (string, error) {
	edited := message
	err := huh.NewText().
		Title("Edit commit message").
		Value(&edited).
		Run()
	if err != nil {
		return "", err
	}
	return edited, nil
}
