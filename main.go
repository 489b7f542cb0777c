package main

import "github.com/saltyorg/git-semver/cmd"

func main() {
	cmd.Execute()
}
