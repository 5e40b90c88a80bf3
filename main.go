package main

import "github.com/notargets/govisc/cmd"

func main() {
	cmd.Execute()
}
