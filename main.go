package main

import "github.com/solanashuffle/splclient/cmd"

func main() {
	cmd.Execute()
}
