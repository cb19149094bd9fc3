package main

import "github.com/ferrite-dev/ferrite/cmd"

func main() {
	cmd.Execute()
}
