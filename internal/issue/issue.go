// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	// NothingFoundId is shown when no MCP server entries were discovered.
	NothingFoundId Id = iota + 1
	// ScanDirUnreadableId is shown when the scan directory exists but cannot be listed.
	ScanDirUnreadableId
	// SourceParseErrorId is shown when one or more source files were skipped.
	SourceParseErrorId
	// UnknownEntryId is shown when --select names an entry that does not exist.
	UnknownEntryId
	// WriteFailedId is shown when the merged document cannot be written.
	WriteFailedId
	// ConfigLoadFailedId is shown when config.cue cannot be loaded.
	ConfigLoadFailedId
	// LauncherNotFoundId is shown when the launcher command is not on PATH.
	LauncherNotFoundId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of a catalog entry.
	MarkdownMsg string

	// HttpLink is a documentation URL appended to a rendered entry.
	HttpLink string

	// Issue is one help page in the catalog.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the catalog ID.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the entry with the given glamour style ("dark", "light",
// "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- " + string(link) + "\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	nothingFoundIssue = &Issue{
		id: NothingFoundId,
		mdMsg: `
# No MCP servers found

mcpick looked for files ending in ` + "`mcpServers.json`" + ` in the project's
` + "`.claude`" + ` directory and found no entries under ` + "`mcpServers`" + `.

## Things you can try
- Create ` + "`.claude/mcpServers.json`" + `:
~~~json
{
  "mcpServers": {
    "filesystem": {
      "command": "npx",
      "args": ["-y", "@modelcontextprotocol/server-filesystem", "."]
    }
  }
}
~~~
- Point mcpick at another project with ` + "`--dir`" + `
- Use a single file directly with ` + "`--source path/to/file.json`",
	}

	scanDirUnreadableIssue = &Issue{
		id: ScanDirUnreadableId,
		mdMsg: `
# Could not read the scan directory

The directory exists but listing it failed, usually because of permissions.

## Things you can try
- Check the permissions of the ` + "`.claude`" + ` directory
- Set ` + "`scan_dir`" + ` in config.cue to another directory`,
	}

	sourceParseErrorIssue = &Issue{
		id: SourceParseErrorId,
		mdMsg: `
# Some server files were skipped

At least one file could not be read or is not valid JSON. Entries from the
remaining files are still available.

## Things you can try
- Validate the file, e.g. ` + "`jq . .claude/mcpServers.json`" + `
- Run with ` + "`--verbose`" + ` to see the parser error for each file`,
	}

	unknownEntryIssue = &Issue{
		id: UnknownEntryId,
		mdMsg: `
# Unknown server name

A name passed to ` + "`--select`" + ` is not defined in any discovered file.

## Things you can try
- List the available names:
~~~
$ mcpick list
~~~`,
	}

	writeFailedIssue = &Issue{
		id: WriteFailedId,
		mdMsg: `
# Could not write the merged MCP config

The selection was made but the output file could not be created.

## Things you can try
- Check free disk space in the scratch directory
- Set ` + "`output_dir`" + ` in config.cue to a writable directory:
~~~cue
output_dir: "/path/you/own"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

mcpick could not read or validate its config.cue.

## Things you can try
- Show the resolved location:
~~~
$ mcpick config path
~~~
- Recreate a default file:
~~~
$ mcpick config init
~~~`,
	}

	launcherNotFoundIssue = &Issue{
		id: LauncherNotFoundId,
		mdMsg: `
# Launcher not found

The command configured as ` + "`launcher.command`" + ` (default ` + "`claude`" + `) is not on your PATH.

## Things you can try
- Install Claude Code, or set an absolute path:
~~~cue
launcher: command: "/usr/local/bin/claude"
~~~
- Use ` + "`mcpick pick`" + ` to only produce the config file`,
		docLinks: []HttpLink{"https://docs.anthropic.com/en/docs/claude-code"},
	}

	issues = map[Id]*Issue{
		nothingFoundIssue.Id():      nothingFoundIssue,
		scanDirUnreadableIssue.Id(): scanDirUnreadableIssue,
		sourceParseErrorIssue.Id():  sourceParseErrorIssue,
		unknownEntryIssue.Id():      unknownEntryIssue,
		writeFailedIssue.Id():       writeFailedIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		launcherNotFoundIssue.Id():  launcherNotFoundIssue,
	}
)

// Values returns every catalog entry ordered by ID.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
