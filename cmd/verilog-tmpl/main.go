package main

import "github.com/robert-at-pretension-io/verilog-tmpl/internal/cli"

func main() {
	cli.Execute()
}
