package main

import "github.com/quotepacks/packman/cmd/packman/cmd"

func main() {
	cmd.Execute()
}
