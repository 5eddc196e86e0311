package main

import "micromouse/cmd"

func main() {
	cmd.Execute()
}
