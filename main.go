/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import "vault/cmd"

func main() {
	cmd.Execute()
}
