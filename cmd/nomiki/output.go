package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/coolbeans/nomiki/pkg/types"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	titleColor   = color.New(color.Bold)
	lawColor     = color.New(color.FgBlue)
	penaltyColor = color.New(color.FgRed)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

const snippetLength = 200

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printArticle(w io.Writer, a types.Article, full bool) {
	titleColor.Fprintln(w, a.Title)
	if a.Law != "" {
		lawColor.Fprintf(w, "  %s\n", a.Law)
	}
	content := a.Content
	if !full {
		content = snippet(content, snippetLength)
	}
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if a.Penalty != "" {
		penaltyColor.Fprintf(w, "  Ποινή: %s\n", a.Penalty)
	}
	fmt.Fprintln(w)
}

// snippet shortens s to at most n runes on a word boundary.
func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
