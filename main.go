// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/kkx/mcl/cmd/mcl"

func main() {
	cmd.Execute()
}
