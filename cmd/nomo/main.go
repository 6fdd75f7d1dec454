// Command nomo builds, solves and displays nomograms.
package main

import "github.com/OpenTraceLab/nomograph/cmd/nomo/cmd"

func main() {
	cmd.Execute()
}
