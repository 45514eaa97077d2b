package main

import "github.com/notargets/fiefs/cmd"

func main() {
	cmd.Execute()
}
