package main

import "github.com/allbin/go-serialport/cmd"

func main() {
	cmd.Execute()
}
