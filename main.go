package main

import "NovaStream/cmd"

func main() {
	cmd.Execute()
}
