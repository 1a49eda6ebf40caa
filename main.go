package main

import "github.com/theirongolddev/savearn/cmd"

func main() {
	cmd.Execute()
}
