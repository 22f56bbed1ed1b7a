package main

import "github.com/coresim/coresim/go/cmd"

func main() {
	cmd.Execute()
}
