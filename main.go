package main

import "github.com/kliqtmedia/ms-go-billing/cmd"

func main() {
	cmd.Execute()
}
