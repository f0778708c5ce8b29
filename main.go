package main

import "github.com/abhishek-geeks/organize-cli/cmd"

func main() {
	cmd.Execute()
}
