package main

import "github.com/mnemovox/recorder/cmd"

func main() {
	cmd.Execute()
}
