// Command skillhive runs the Skill Hive adapters and maintenance tasks from
// the shell.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
