package main

import "mindmap/cmd"

func main() {
	cmd.Execute()
}
