package main

import "wipeforge/cmd"

func main() {
	cmd.Execute()
}
