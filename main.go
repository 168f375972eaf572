package main

import "github.com/grandcamel/confluence-skills/cmd"

func main() {
	cmd.Execute()
}
