// Command timinggraph answers structural and delay queries over a timing
// annotation.
package main

import "github.com/dd0wney/cluso-timing/cmd/timinggraph/cmd"

func main() {
	cmd.Execute()
}
