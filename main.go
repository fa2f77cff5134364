package main

import "drover/cmd"

func main() {
	cmd.Execute()
}
