package main

import "hybridtest/cmd"

func main() {
	cmd.Execute()
}
