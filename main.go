package main

import "github.com/deepsr2003/micro-telegram/cmd"

func main() {
	cmd.Execute()
}
