package main

import "github.com/SeanPesce/JSRETK/cmd"

func main() {
	cmd.Execute()
}
