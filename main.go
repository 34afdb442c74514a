package main

import "github.com/yarlson/gflow/cmd"

func main() {
	cmd.Execute()
}
