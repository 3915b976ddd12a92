package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/native-bridge/capstone"
	"github.com/wippyai/native-bridge/marshal"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func render(s lipgloss.Style, text string, styled bool) string {
	if !styled {
		return text
	}
	return s.Render(text)
}

func printLayout(w io.Writer, l *marshal.TypeLayout, styled bool) {
	title := fmt.Sprintf("%s  size=%d align=%d", l.Name(), l.Size(), l.Align())
	fmt.Fprintln(w, render(titleStyle, title, styled))
	for _, f := range l.Fields() {
		fmt.Fprintf(w, "  %s %s %s\n",
			render(offsetStyle, fmt.Sprintf("%4d", f.Offset), styled),
			render(fieldStyle, fmt.Sprintf("%-14s", f.Name), styled),
			render(dimStyle, fmt.Sprintf("size=%d align=%d", f.Size, f.Align), styled))
	}
	fmt.Fprintln(w)
}

func printInsns(w io.Writer, insns []capstone.Insn, styled bool) {
	for _, insn := range insns {
		fmt.Fprintf(w, "%s  %s  %s %s\n",
			render(offsetStyle, fmt.Sprintf("0x%08x", insn.Address), styled),
			render(dimStyle, fmt.Sprintf("% x", insn.Raw()), styled),
			render(fieldStyle, fmt.Sprintf("%-6s", insn.Mnemonic), styled),
			insn.OpStr)
	}
}
