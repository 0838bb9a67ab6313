package main

import "github.com/mhollis/evlog/cmd"

func main() {
	cmd.Execute()
}
