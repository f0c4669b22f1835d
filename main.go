package main

import "github.com/juststeveking/pingscope/cmd"

func main() {
	cmd.Execute()
}
