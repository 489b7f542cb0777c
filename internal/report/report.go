// Package report renders computed versions and ledger history as terminal tables.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/saltyorg/git-semver/internal/ledger"
	"github.com/saltyorg/git-semver/internal/template"
)

// Printer writes tables to an output stream.
type Printer struct {
	out   io.Writer
	color bool
}

// New creates a printer. Colors are enabled only when out is a terminal.
func New(out io.Writer) *Printer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{out: out, color: color}
}

// WithColor forces colors on or off.
func (p *Printer) WithColor(color bool) *Printer {
	clone := *p
	clone.color = color
	return &clone
}

func (p *Printer) paint(c text.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

func (p *Printer) style() table.Style {
	if p.color {
		return table.StyleRounded
	}
	return table.StyleDefault
}

// Version prints the version name and code box followed by details.
func (p *Printer) Version(d *template.Data, fallback bool) {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.AppendHeader(table.Row{"Version Name", "Version Code"})

	code := fmt.Sprintf("%d", d.VersionCode)
	if fallback {
		code = p.paint(text.FgYellow, code+" (fallback)")
	}
	t.AppendRow(table.Row{p.paint(text.FgGreen, d.Version), code})
	t.AppendSeparator()

	tag := d.Tag
	if tag == "" {
		tag = "-"
	}
	commit := d.Commit
	if commit == "" {
		commit = "-"
	}
	t.AppendRow(table.Row{"Channel", d.Channel})
	t.AppendRow(table.Row{"Last Tag", tag})
	t.AppendRow(table.Row{"Commits Since Tag", d.CommitsSinceTag})
	t.AppendRow(table.Row{"Commit", commit})
	release := "no"
	if d.IsRelease() {
		release = p.paint(text.FgGreen, "yes")
	}
	t.AppendRow(table.Row{"Release", release})

	t.SetStyle(p.style())
	t.Render()
}

// History prints ledger entries, newest first.
func (p *Printer) History(entries []ledger.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No versions recorded")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.AppendHeader(table.Row{"Recorded", "Version Name", "Version Code", "Channel", "Tag", "Commit"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.RecordedAt.Local().Format("2006-01-02 15:04"),
			e.Version,
			e.VersionCode,
			p.channel(e.Channel),
			e.Tag,
			e.Commit,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.SetStyle(p.style())
	t.Render()
}

func (p *Printer) channel(name string) string {
	switch name {
	case "alpha":
		return p.paint(text.FgRed, name)
	case "beta":
		return p.paint(text.FgYellow, name)
	case "rc":
		return p.paint(text.FgCyan, name)
	default:
		return p.paint(text.FgGreen, name)
	}
}
