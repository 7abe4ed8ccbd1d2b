// Command luaf-package builds LuaFramework and packs it into a distributable zip archive.
package main

import "github.com/eigeen/LuaFramework/cmd/luaf-package/cmd"

func main() {
	cmd.Execute()
}
