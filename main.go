package main

import "github.com/javokhirdev/rental-management/cmd"

func main() {
	cmd.Execute()
}
