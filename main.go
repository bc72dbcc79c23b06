package main

import "github.com/nikhil-rg/salespipe/cmd"

func main() {
	cmd.Execute()
}
