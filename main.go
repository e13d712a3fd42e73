package main

import "github.com/chriserin/ftl/cmd"

func main() {
	cmd.Execute()
}
