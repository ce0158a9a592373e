package main

import "github.com/deploymenttheory/go-zerofree/cmd"

func main() {
	cmd.Execute()
}
