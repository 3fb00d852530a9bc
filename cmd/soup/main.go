package main

import "github.com/robalobadob/soup-riddle/internal/cli"

func main() {
	cli.Execute()
}
