package main

import "github.com/dwtools/dwcli/cmd"

func main() {
	cmd.Execute()
}
