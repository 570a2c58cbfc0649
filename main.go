package main

import "polyglot-booking/cmd"

func main() {
	cmd.Execute()
}
