package main

import "relbot/internal/cli"

func main() {
	cli.Execute()
}
