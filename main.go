package main

import "country-cache/cmd"

func main() {
	cmd.Execute()
}
