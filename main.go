package main

import "classmin/cmd"

func main() {
	cmd.Execute()
}
