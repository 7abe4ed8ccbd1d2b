// Command luaf-deploy builds LuaFramework and copies the fresh binaries into a game installation.
package main

import "github.com/eigeen/LuaFramework/cmd/luaf-deploy/cmd"

func main() {
	cmd.Execute()
}
