// Copyright (c) 2023, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package cli

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"

	"github.com/openthread/ot-lowpan-sim/logger"
)

// helpEntry is the help text of one command, taken from its section in README.md.
type helpEntry struct {
	short string
	lines []string
}

type Help struct {
	termWidth   uint
	maxCmdWidth uint
	entries     map[string]*helpEntry
	aliases     map[string]string
}

var (
	cmdHeaderPattern  = regexp.MustCompile("^### +([a-z]+)")
	linkTargetPattern = regexp.MustCompile(`\(#[a-z-]+\)`)
)

// Embed the CLI help file as a static resource.
//
//go:embed README.md
var cliHelpFile string

// Creates new Help object. It is used to display CLI commands help to the user.
func newHelp() Help {
	h := Help{
		termWidth:   80,
		maxCmdWidth: 10,
		entries:     make(map[string]*helpEntry),
		aliases:     map[string]string{"nb": "neighbors"},
	}
	h.parseHelpFile(cliHelpFile)
	h.update()
	return h
}

// Updates the Help object to take into account current user's terminal size.
func (help *Help) update() {
	fdTerm := int(os.Stdout.Fd()) // Windows platform requires cast to int.
	if term.IsTerminal(fdTerm) {
		width, _, err := term.GetSize(fdTerm)
		logger.PanicIfError(err, "Could not get terminal size.")
		help.termWidth = uint(width)
	}
}

// commandNames returns the sorted names of all documented commands.
func (help *Help) commandNames() []string {
	cmds := make([]string, 0, len(help.entries))
	for k := range help.entries {
		cmds = append(cmds, k)
	}
	sort.Strings(cmds)
	return cmds
}

// Output short help for all commands.
func (help *Help) outputGeneralHelp() string {
	var sb strings.Builder
	for _, c := range help.commandNames() {
		sb.WriteString(fmt.Sprintf("%-15s %s\n", c, help.entries[c].short))
	}
	sb.WriteString(wordwrap.WrapString("\nFor detailed help per command, use: 'help <command>'\n", help.termWidth))
	return sb.String()
}

// Output help for one specific command.
func (help *Help) outputCommandHelp(command string) string {
	help.update()
	if alias, ok := help.aliases[command]; ok {
		command = alias
	}
	entry, ok := help.entries[command]
	if !ok {
		return command + "\n  (Non-existent command.)\n"
	}

	var sb strings.Builder
	sb.WriteString(command + "\n")
	w := help.termWidth - help.maxCmdWidth - 1
	for _, line := range entry.lines {
		for _, wrapped := range strings.Split(wordwrap.WrapString(line, w), "\n") {
			sb.WriteString("  " + wrapped + "\n")
		}
	}
	return sb.String()
}

// parseHelpFile splits the Markdown file into one entry per '### <command>' section. Code blocks
// are indented; a shell block is the command definition and a bash block an example.
func (help *Help) parseHelpFile(md string) {
	var entry *helpEntry
	indent := ""
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, " \t")

		if m := cmdHeaderPattern.FindStringSubmatch(line); m != nil {
			entry = &helpEntry{}
			help.entries[m[1]] = entry
			indent = ""
			continue
		}
		if entry == nil || len(strings.TrimSpace(line)) == 0 {
			continue
		}

		switch line {
		case "```shell":
			entry.lines = append(entry.lines, "", "Definition:")
			indent = "  "
			continue
		case "```bash":
			entry.lines = append(entry.lines, "", "Example:")
			indent = "  "
			continue
		case "```":
			entry.lines = append(entry.lines, "")
			indent = ""
			continue
		}

		if indent == "" {
			line = markdownUnquote(line)
			if entry.short == "" {
				entry.short = firstSentence(line)
			}
		}
		entry.lines = append(entry.lines, indent+line)
	}
}

func firstSentence(line string) string {
	if idx := strings.Index(line, ". "); idx > 0 {
		return line[:idx+1]
	}
	return line
}

func markdownUnquote(md string) string {
	md = strings.ReplaceAll(md, "\\", "")
	md = strings.ReplaceAll(md, "`", "")
	md = linkTargetPattern.ReplaceAllString(md, "")
	return md
}
