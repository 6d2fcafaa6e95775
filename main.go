// SPDX-License-Identifier: MPL-2.0

package main

import cmd "phpvm/cmd/phpvm"

func main() {
	cmd.Execute()
}
