// accountd is an account management and access-control API server.
// It exposes REST APIs for signup, login, and role-guarded account listings.
package main

import (
	"github.com/castelan/accountd/src/accountd/core"
)

func main() {
	core.Execute()
}
