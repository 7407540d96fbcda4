package main

import "tutorbook/internal/cli"

func main() {
	cli.Execute()
}
