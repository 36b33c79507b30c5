package main

import "github.com/bensuskins/meal-planner/cmd"

func main() {
	cmd.Execute()
}
