package main

import "github.com/crystaldolphin/archbot/cmd"

func main() {
	cmd.Execute()
}
