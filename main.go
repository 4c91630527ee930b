package main

import "github.com/txscout/txscout/cmd"

func main() {
	cmd.Execute()
}
