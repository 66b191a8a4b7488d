package main

import "github.com/KaramelBytes/tabinsight-cli/cmd"

func main() {
	cmd.Execute()
}
