package main

import "github.com/frahmantamala/monthly-budget/cmd"

func main() {
	cmd.Execute()
}
