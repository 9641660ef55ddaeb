package main

import "beatmap-cache/cmd"

func main() {
	cmd.Execute()
}
