package main

import "github.com/quatton/vitalsync/apps/vitalsync/cmd"

func main() {
	cmd.Execute()
}
