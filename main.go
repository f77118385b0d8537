package main

import "github.com/gkj-pamulang/panitia/cmd"

func main() {
	cmd.Execute()
}
