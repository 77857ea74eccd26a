package main

import "github.com/KaramelBytes/shoestat-cli/cmd"

func main() {
	cmd.Execute()
}
