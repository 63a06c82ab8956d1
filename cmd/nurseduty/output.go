package main

import (
	"encoding/json"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	muted   = color.New(color.FgHiBlack).SprintFunc()
	header  = color.New(color.Bold).SprintFunc()
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// printJSON writes v as indented JSON without escaping non-ASCII or HTML
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func activeLabel(active bool) string {
	if active {
		return success("active")
	}
	return warning("inactive")
}

// stringField returns a raw nurse field as text, or "-"
func stringField(raw json.RawMessage) string {
	if raw == nil || string(raw) == "null" {
		return muted("-")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
