// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/mcpick/mcpick/cmd/mcpick"

func main() {
	cmd.Execute()
}
