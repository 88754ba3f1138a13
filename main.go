package main

import "github.com/mouse-blink/suspect/cmd"

func main() {
	cmd.Execute()
}
